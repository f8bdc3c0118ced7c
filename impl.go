package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pfpMint/errs"
	"pfpMint/metrics"
	"pfpMint/services/artwork"
	"pfpMint/services/discord"
	"pfpMint/services/imagestore"
	"pfpMint/services/mint"
)

const (
	msgMissingParams = "Missing required parameters"
	msgMintFailed    = "Error preparing NFT mint"
	msgAuthFailed    = "Authentication failed. Please try again."
	msgNoCode        = "No code provided"
)

type Server struct {
	DiscordService  discord.Service
	ArtworkService  artwork.Generator
	ImageStore      imagestore.Store
	MintService     mint.Service
	ContractAddress string
}

func NewServer(
	discordService discord.Service,
	artworkService artwork.Generator,
	imageStore imagestore.Store,
	mintService mint.Service,
	contractAddress string,
) Server {
	return Server{
		DiscordService:  discordService,
		ArtworkService:  artworkService,
		ImageStore:      imageStore,
		MintService:     mintService,
		ContractAddress: contractAddress,
	}
}

// MintResponse is the JSON body of every /mint answer.
type MintResponse struct {
	Success         bool   `json:"success"`
	Price           string `json:"price,omitempty"`
	MetadataHash    string `json:"metadataHash,omitempty"`
	ContractAddress string `json:"contractAddress,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	MetadataURL     string `json:"metadataUrl,omitempty"`
	Message         string `json:"message,omitempty"`
	Error           string `json:"error,omitempty"`
}

func (s Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (s Server) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, s.DiscordService.AuthorizeURL())
}

func (s Server) AuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, msgNoCode)
		return
	}
	ctx := c.Request.Context()

	profile, err := s.DiscordService.Profile(ctx, code)
	if err != nil {
		s.callbackFailed(c, err)
		return
	}
	img, err := s.ArtworkService.Generate(ctx, profile.AvatarURL, artwork.NewMemberships(profile.Roles...))
	metrics.ImagesGenerated.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.callbackFailed(c, err)
		return
	}
	savedPath, err := s.ImageStore.Save(ctx, profile.User.ID, img)
	if err != nil {
		s.callbackFailed(c, err)
		return
	}

	log.Info().
		Str("savedPath", savedPath).
		Str("userID", profile.User.ID).
		Str("username", profile.User.Username).
		Str("avatarURL", profile.AvatarURL).
		Msg("generated profile image")

	c.HTML(http.StatusOK, "mint.html", newMintPage(profile.User, s.ContractAddress))
}

func (s Server) callbackFailed(c *gin.Context, err error) {
	log.Error().Err(err).Str("kind", string(errs.KindOf(err))).Msg("error during OAuth flow")
	c.String(http.StatusInternalServerError, msgAuthFailed)
}

func (s Server) Mint(c *gin.Context) {
	var req mint.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MintResponse{Message: msgMissingParams, Error: err.Error()})
		return
	}
	mode := metrics.ModeFull
	if req.CheckOnly {
		mode = metrics.ModeCheck
	}

	res, err := s.MintService.Prepare(c.Request.Context(), req)
	metrics.MintRequests.WithLabelValues(mode, metrics.Result(err)).Inc()
	if err != nil {
		kind := errs.KindOf(err)
		metrics.MintFailures.WithLabelValues(string(kind)).Inc()
		if kind == errs.Validation {
			c.JSON(http.StatusBadRequest, MintResponse{Message: msgMissingParams})
			return
		}
		log.Error().Err(err).Msg("detailed error in mint")
		c.JSON(errs.HTTPStatus(kind), MintResponse{Message: msgMintFailed, Error: rootMessage(err)})
		return
	}

	if req.CheckOnly {
		c.JSON(http.StatusOK, MintResponse{Success: true, Price: res.Price})
		return
	}
	c.JSON(http.StatusOK, MintResponse{
		Success:         true,
		Price:           res.Price,
		MetadataHash:    res.MetadataHash,
		ContractAddress: res.ContractAddress,
		ImageURL:        res.ImageURL(),
		MetadataURL:     res.MetadataURL(),
	})
}

// rootMessage drops the step prefixes and reports what actually failed.
func rootMessage(err error) string {
	for {
		tagged, ok := err.(*errs.Error)
		if !ok || tagged.Err == nil {
			return err.Error()
		}
		err = tagged.Err
	}
}

// validationFailed answers requests rejected by the OpenAPI validator.
func validationFailed(c *gin.Context, message string, statusCode int) {
	metrics.MintFailures.WithLabelValues(string(errs.Validation)).Inc()
	log.Warn().Str("error", message).Msg("rejected mint request")
	c.AbortWithStatusJSON(statusCode, MintResponse{Message: msgMissingParams, Error: message})
}
