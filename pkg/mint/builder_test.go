package mint

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var computeBudgetProgram = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

type fakeUploader struct {
	calls    int
	document OffchainDocument
	err      error
}

func (f *fakeUploader) UploadJSON(_ context.Context, document any) (string, error) {
	f.calls++
	if typed, ok := document.(OffchainDocument); ok {
		f.document = typed
	}
	if f.err != nil {
		return "", f.err
	}
	return "https://nftstorage.link/ipfs/bafybeigbhoe7436f2ieudxxw6a6ktg37xcrgf4b7iqol4uefnkaa42pdem", nil
}

type fakeBlockhashes struct {
	hash   solana.Hash
	height uint64
	err    error
}

func (f *fakeBlockhashes) GetLatestBlockhash(context.Context, rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: f.hash, LastValidBlockHeight: f.height},
	}, nil
}

type fixture struct {
	builder     *Builder
	uploader    *fakeUploader
	blockhashes *fakeBlockhashes
	authority   solana.PrivateKey
	tree        solana.PublicKey
	author      solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	authority, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	treeKey, _ := solana.NewRandomPrivateKey()
	authorKey, _ := solana.NewRandomPrivateKey()
	hashKey, _ := solana.NewRandomPrivateKey()

	f := &fixture{
		uploader:    &fakeUploader{},
		blockhashes: &fakeBlockhashes{hash: solana.Hash(hashKey.PublicKey()), height: 250},
		authority:   authority,
		tree:        treeKey.PublicKey(),
		author:      authorKey.PublicKey(),
	}
	f.builder, err = NewBuilder(Config{
		Uploader:      f.uploader,
		Blockhashes:   f.blockhashes,
		TreeAuthority: authority,
		MerkleTree:    f.tree,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func TestPrepareRejectsLongTitleBeforeUpload(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder.Prepare(context.Background(), Request{
		Title:   strings.Repeat("a", 33),
		Author:  f.author.String(),
		Content: "# Body",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Field != "title" || validationErr.Message != MessageTitle {
		t.Fatalf("unexpected validation error %+v", validationErr)
	}
	if f.uploader.calls != 0 {
		t.Fatalf("uploader must not be invoked, got %d calls", f.uploader.calls)
	}
}

func TestValidateOrder(t *testing.T) {
	cases := []struct {
		request Request
		field   string
		message string
	}{
		{Request{Title: "", Author: "bad", Content: ""}, "title", MessageTitleRequired},
		{Request{Title: strings.Repeat("a", 33), Author: "bad", Content: ""}, "title", MessageTitle},
		{Request{Title: strings.Repeat("é", 17), Author: "bad", Content: ""}, "title", MessageTitleBytes},
		{Request{Title: "ok", Author: "bad", Content: ""}, "author", MessagePublicKey},
		{Request{Title: "ok", Author: solana.SystemProgramID.String(), Content: "  \n"}, "content", MessageContent},
	}
	for _, tc := range cases {
		_, err := Validate(tc.request)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected validation error for %+v", tc.request)
		}
		if validationErr.Field != tc.field || validationErr.Message != tc.message {
			t.Fatalf("expected %s/%q, got %+v", tc.field, tc.message, validationErr)
		}
		if PublicMessage(err) != tc.message {
			t.Fatalf("unexpected public message %q", PublicMessage(err))
		}
	}

	if _, err := Validate(Request{Title: strings.Repeat("a", 32), Author: solana.SystemProgramID.String(), Content: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Validate(Request{Title: strings.Repeat("é", 16), Author: solana.SystemProgramID.String(), Content: "x"}); err != nil {
		t.Fatalf("unexpected error for 16 two-byte characters: %v", err)
	}
}

func TestPrepareMergesSummaryIntoFrontMatter(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder.Prepare(context.Background(), Request{
		Title:   "Hello",
		Author:  f.author.String(),
		Content: "---\nimage: https://img.example/a.png\n---\n# Body\n",
		Summary: "A short piece.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	description := f.uploader.document.Description
	if !strings.Contains(description, "summary: A short piece.") {
		t.Fatalf("summary missing from uploaded description %q", description)
	}
	if !strings.HasSuffix(description, "# Body\n") {
		t.Fatalf("body not preserved in %q", description)
	}
	if f.uploader.document.Image != "https://img.example/a.png" {
		t.Fatalf("unexpected image %q", f.uploader.document.Image)
	}
}

func TestPrepareRejectsSummaryOnInvalidFrontMatter(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder.Prepare(context.Background(), Request{
		Title:   "Hello",
		Author:  f.author.String(),
		Content: "---\ntitle: [unclosed\n---\n# Body\n",
		Summary: "A short piece.",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "summary" {
		t.Fatalf("expected summary validation error, got %v", err)
	}
	if f.uploader.calls != 0 {
		t.Fatalf("uploader must not be invoked, got %d calls", f.uploader.calls)
	}
}

func TestPrepareBuildsCoSignedTransaction(t *testing.T) {
	f := newFixture(t)

	prepared, err := f.builder.Prepare(context.Background(), Request{
		Title:   "Hello",
		Author:  f.author.String(),
		Content: "# Body",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared.Blockhash != f.blockhashes.hash.String() || prepared.LastValidBlockHeight != 250 {
		t.Fatalf("unexpected blockhash data %+v", prepared)
	}

	document := f.uploader.document
	if document.Name != "Hello" || document.Symbol != "ETCHED" || document.Description != "# Body" {
		t.Fatalf("unexpected document %+v", document)
	}
	if !strings.Contains(document.Image, "bafybeigbhoe7436f2ieudxxw6a6ktg37xcrgf4b7iqol4uefnkaa42pdem") {
		t.Fatalf("expected default image, got %q", document.Image)
	}

	raw, err := base64.StdEncoding.DecodeString(prepared.Transaction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	transaction, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	message := transaction.Message
	if !message.AccountKeys[0].Equals(f.author) {
		t.Fatal("author must pay fees")
	}
	if len(message.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(message.Instructions))
	}
	first := message.AccountKeys[message.Instructions[0].ProgramIDIndex]
	if !first.Equals(computeBudgetProgram) {
		t.Fatal("priority fee instruction must come first")
	}

	if len(transaction.Signatures) != 2 {
		t.Fatalf("expected 2 signature slots, got %d", len(transaction.Signatures))
	}
	content, err := message.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authorityIndex := -1
	for index, key := range message.AccountKeys[:2] {
		if key.Equals(f.authority.PublicKey()) {
			authorityIndex = index
		}
	}
	if authorityIndex < 0 {
		t.Fatal("tree authority must be a signer")
	}
	if !transaction.Signatures[authorityIndex].Verify(f.authority.PublicKey(), content) {
		t.Fatal("tree authority signature does not verify")
	}
	if !transaction.Signatures[0].IsZero() {
		t.Fatal("author signature must be left for the wallet")
	}
}

func TestPrepareUsesFrontMatterImage(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder.Prepare(context.Background(), Request{
		Title:   "Hello",
		Author:  f.author.String(),
		Content: "---\nimage: https://img.example/cover.png\n---\n# Body",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.uploader.document.Image != "https://img.example/cover.png" {
		t.Fatalf("unexpected image %q", f.uploader.document.Image)
	}
}

func TestPrepareUploadFailure(t *testing.T) {
	f := newFixture(t)
	f.uploader.err = errors.New("storage down")

	_, err := f.builder.Prepare(context.Background(), Request{Title: "Hello", Author: f.author.String(), Content: "x"})
	if !errors.Is(err, ErrUpload) || errors.Is(err, ErrBuild) {
		t.Fatalf("expected upload error, got %v", err)
	}
	if PublicMessage(err) != MessageUpload {
		t.Fatalf("unexpected public message %q", PublicMessage(err))
	}
}

func TestPrepareBuildFailure(t *testing.T) {
	f := newFixture(t)
	f.blockhashes.err = errors.New("rpc down")

	_, err := f.builder.Prepare(context.Background(), Request{Title: "Hello", Author: f.author.String(), Content: "x"})
	if !errors.Is(err, ErrBuild) {
		t.Fatalf("expected build error, got %v", err)
	}
	if PublicMessage(err) != MessageBuild {
		t.Fatalf("unexpected public message %q", PublicMessage(err))
	}
}

func TestNewBuilderValidation(t *testing.T) {
	if _, err := NewBuilder(Config{}); err == nil {
		t.Fatal("expected error for empty config")
	}
}
