package mint

import (
	"context"

	"github.com/etched-id/etched-go/pkg/uploader"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	Symbol                = "ETCHED"
	PriorityMicroLamports = 1000
	sellerFeeBasisPoints  = 0
	creatorShare          = 100
)

// BlockhashSource supplies the recent blockhash a transaction is built on.
// *rpc.Client satisfies it.
type BlockhashSource interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

type Config struct {
	Uploader      uploader.Uploader
	Blockhashes   BlockhashSource
	TreeAuthority solana.PrivateKey
	MerkleTree    solana.PublicKey
	DefaultImage  string
	Logger        *zap.Logger
}

// Request is the body of a create call. A non-empty Summary is merged into
// the content's front matter before upload.
type Request struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// Prepared is a partially signed transaction ready for the author's wallet.
type Prepared struct {
	Transaction          string `json:"transaction"`
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

// OffchainDocument is the JSON uploaded for every mint.
type OffchainDocument struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
