// Package mint prepares a mint: it prices the request and, unless only the
// price was asked for, pins the member's image and its metadata to IPFS.
package mint

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pfpMint/errs"
	"pfpMint/services/imagestore"
	"pfpMint/services/pricing"
)

const ipfsScheme = "ipfs://"

type Request struct {
	DiscordUsername string `json:"discordUsername"`
	ImageURL        string `json:"imageUrl"`
	WalletAddress   string `json:"walletAddress"`
	CheckOnly       bool   `json:"checkOnly"`
}

type Result struct {
	Price           string
	PriceWei        *big.Int
	MetadataHash    string
	ImageHash       string
	ContractAddress string
}

func (r Result) ImageURL() string {
	if r.ImageHash == "" {
		return ""
	}
	return ipfsScheme + r.ImageHash
}

func (r Result) MetadataURL() string {
	if r.MetadataHash == "" {
		return ""
	}
	return ipfsScheme + r.MetadataHash
}

// Metadata is the token metadata document pinned next to the image.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// Ledger is the read side of the mint contract.
type Ledger interface {
	pricing.Source
	Address() string
}

type Images interface {
	Load(ctx context.Context, userID string) ([]byte, error)
}

type Pinner interface {
	PinFile(ctx context.Context, fileName string, data []byte) (string, error)
	PinJSON(ctx context.Context, v any) (string, error)
}

type Service interface {
	Prepare(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	ledger Ledger
	roles  pricing.RoleLookup
	images Images
	pinner Pinner
	now    func() time.Time
}

var _ Service = (*service)(nil)

type Option func(*service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

func NewService(ledger Ledger, roles pricing.RoleLookup, images Images, pinner Pinner, opts ...Option) Service {
	s := &service{
		ledger: ledger,
		roles:  roles,
		images: images,
		pinner: pinner,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// attempt carries one request through the pipeline.
type attempt struct {
	req      Request
	userID   string
	image    []byte
	metadata Metadata
	result   Result
	done     bool
}

type step struct {
	name string
	run  func(ctx context.Context, a *attempt) error
}

func (s *service) steps() []step {
	return []step{
		{"validate", s.validate},
		{"price", s.price},
		{"loadImage", s.loadImage},
		{"uploadImage", s.uploadImage},
		{"uploadMetadata", s.uploadMetadata},
	}
}

// Prepare runs the steps in order and stops at the first failure, or right
// after pricing when only the price was asked for.
func (s *service) Prepare(ctx context.Context, req Request) (*Result, error) {
	a := &attempt{req: req}
	for _, st := range s.steps() {
		if err := st.run(ctx, a); err != nil {
			log.Error().Err(err).
				Str("step", st.name).
				Str("kind", string(errs.KindOf(err))).
				Str("discordUsername", req.DiscordUsername).
				Msg("mint preparation failed")
			return nil, err
		}
		if a.done {
			break
		}
	}
	return &a.result, nil
}

func (s *service) validate(_ context.Context, a *attempt) error {
	r := a.req
	if strings.TrimSpace(r.DiscordUsername) == "" || strings.TrimSpace(r.ImageURL) == "" || strings.TrimSpace(r.WalletAddress) == "" {
		return errs.New(errs.Validation, "mint.validate", "Missing required parameters")
	}
	return nil
}

func (s *service) price(ctx context.Context, a *attempt) error {
	wei, err := pricing.Quote(ctx, s.now(), s.ledger, s.roles, a.req.DiscordUsername)
	if err != nil {
		return err
	}
	if wei == nil {
		return errs.New(errs.ContractRead, "mint.price", "contract returned no price")
	}
	a.result.PriceWei = wei
	a.result.Price = pricing.FormatEther(wei)
	a.done = a.req.CheckOnly
	return nil
}

func (s *service) loadImage(ctx context.Context, a *attempt) error {
	userID, err := imagestore.UserIDFromRef(a.req.ImageURL)
	if err != nil {
		return errs.E(errs.Image, "mint.loadImage", err)
	}
	data, err := s.images.Load(ctx, userID)
	if err != nil {
		return errs.E(errs.Image, "mint.loadImage", err)
	}
	a.userID = userID
	a.image = data
	log.Debug().Str("userID", userID).Int("bytes", len(data)).Msg("loaded image")
	return nil
}

func (s *service) uploadImage(ctx context.Context, a *attempt) error {
	hash, err := s.pinner.PinFile(ctx, imagestore.FileName(a.userID), a.image)
	if err != nil {
		return errs.E(errs.Upload, "mint.uploadImage", err)
	}
	a.result.ImageHash = hash
	a.metadata = NewMetadata(a.req.DiscordUsername, hash)
	return nil
}

func (s *service) uploadMetadata(ctx context.Context, a *attempt) error {
	hash, err := s.pinner.PinJSON(ctx, a.metadata)
	if err != nil {
		return errs.E(errs.Upload, "mint.uploadMetadata", err)
	}
	a.result.MetadataHash = hash
	a.result.ContractAddress = s.ledger.Address()
	log.Info().
		Str("discordUsername", a.req.DiscordUsername).
		Str("imageHash", a.result.ImageHash).
		Str("metadataHash", hash).
		Msg("mint prepared")
	return nil
}

func NewMetadata(username, imageHash string) Metadata {
	return Metadata{
		Name:        "Profile Picture NFT for " + username,
		Description: "NFT minted from Discord profile picture",
		Image:       ipfsScheme + imageHash,
		Attributes:  []Attribute{},
	}
}
