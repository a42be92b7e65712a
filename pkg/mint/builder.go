package mint

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/etched-id/etched-go/pkg/bubblegum"
	"github.com/etched-id/etched-go/pkg/markdown"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/etched-id/etched-go/pkg/uploader"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Builder prepares mint transactions. It holds the tree authority for its
// whole lifetime and is safe for concurrent use.
type Builder struct {
	uploader      uploader.Uploader
	blockhashes   BlockhashSource
	treeAuthority solana.PrivateKey
	authorityKey  solana.PublicKey
	merkleTree    solana.PublicKey
	defaultImage  string
	logger        *zap.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(config Config) (*Builder, error) {
	if config.Uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	if config.Blockhashes == nil {
		return nil, fmt.Errorf("blockhash source is required")
	}
	if len(config.TreeAuthority) != 64 {
		return nil, fmt.Errorf("tree authority key is required")
	}
	if config.MerkleTree.IsZero() {
		return nil, fmt.Errorf("merkle tree is required")
	}
	defaultImage := strings.TrimSpace(config.DefaultImage)
	if defaultImage == "" {
		defaultImage = shared.DefaultImageURI
	}

	return &Builder{
		uploader:      config.Uploader,
		blockhashes:   config.Blockhashes,
		treeAuthority: config.TreeAuthority,
		authorityKey:  config.TreeAuthority.PublicKey(),
		merkleTree:    config.MerkleTree,
		defaultImage:  defaultImage,
		logger:        shared.LoggerOrNop(config.Logger),
	}, nil
}

// Validate checks the request in order: title, author, content.
func Validate(request Request) (solana.PublicKey, error) {
	if request.Title == "" {
		return solana.PublicKey{}, newValidationError("title", MessageTitleRequired)
	}
	if utf8.RuneCountInString(request.Title) > bubblegum.MaxNameLength {
		return solana.PublicKey{}, newValidationError("title", MessageTitle)
	}
	if len(request.Title) > bubblegum.MaxNameLength {
		return solana.PublicKey{}, newValidationError("title", MessageTitleBytes)
	}
	author, err := solana.PublicKeyFromBase58(strings.TrimSpace(request.Author))
	if err != nil {
		return solana.PublicKey{}, newValidationError("author", MessagePublicKey)
	}
	if strings.TrimSpace(request.Content) == "" {
		return solana.PublicKey{}, newValidationError("content", MessageContent)
	}
	return author, nil
}

// Prepare validates request, uploads its metadata and returns the mint
// transaction co-signed by the tree authority.
func (b *Builder) Prepare(ctx context.Context, request Request) (Prepared, error) {
	author, err := Validate(request)
	if err != nil {
		return Prepared{}, err
	}

	content, err := markdown.MergeSummary(request.Content, request.Summary)
	if err != nil {
		return Prepared{}, newValidationError("summary", MessageSummary)
	}

	document := OffchainDocument{
		Name:        request.Title,
		Symbol:      Symbol,
		Description: content,
		Image:       b.imageFor(content),
	}
	uri, err := b.uploader.UploadJSON(ctx, document)
	if err != nil {
		b.logger.Error("metadata upload failed", zap.String("author", author.String()), zap.Error(err))
		return Prepared{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	latest, err := b.blockhashes.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return Prepared{}, b.buildFailure(author, fmt.Errorf("failed to get latest blockhash: %w", err))
	}
	if latest == nil || latest.Value == nil {
		return Prepared{}, b.buildFailure(author, fmt.Errorf("latest blockhash response was empty"))
	}

	transaction, err := BuildMintTx(TransactionParams{
		Author:        author,
		MerkleTree:    b.merkleTree,
		TreeAuthority: b.authorityKey,
		Name:          request.Title,
		URI:           uri,
		Blockhash:     latest.Value.Blockhash,
	})
	if err != nil {
		return Prepared{}, b.buildFailure(author, err)
	}

	_, err = transaction.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(b.authorityKey) {
			return &b.treeAuthority
		}
		return nil
	})
	if err != nil {
		return Prepared{}, b.buildFailure(author, fmt.Errorf("failed to co-sign mint transaction: %w", err))
	}

	raw, err := transaction.MarshalBinary()
	if err != nil {
		return Prepared{}, b.buildFailure(author, fmt.Errorf("failed to serialize mint transaction: %w", err))
	}

	b.logger.Info(
		"prepared mint transaction",
		zap.String("author", author.String()),
		zap.String("uri", uri),
		zap.Uint64("last_valid_block_height", latest.Value.LastValidBlockHeight),
	)

	return Prepared{
		Transaction:          base64.StdEncoding.EncodeToString(raw),
		Blockhash:            latest.Value.Blockhash.String(),
		LastValidBlockHeight: latest.Value.LastValidBlockHeight,
	}, nil
}

func (b *Builder) imageFor(content string) string {
	document, err := markdown.Parse(content)
	if err != nil {
		b.logger.Debug("ignoring unreadable front matter", zap.Error(err))
		return b.defaultImage
	}
	if image := document.Image(); image != "" {
		return image
	}
	return b.defaultImage
}

func (b *Builder) buildFailure(author solana.PublicKey, err error) error {
	b.logger.Error("mint build failed", zap.String("author", author.String()), zap.Error(err))
	return fmt.Errorf("%w: %w", ErrBuild, err)
}
