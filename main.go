package main

import (
	"context"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	ginmiddleware "github.com/oapi-codegen/gin-middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"pfpMint/api"
	"pfpMint/clients/ethereum"
	"pfpMint/clients/gcp"
	"pfpMint/clients/pinata"
	"pfpMint/envvars"
	"pfpMint/services/artwork"
	"pfpMint/services/discord"
	"pfpMint/services/imagestore"
	"pfpMint/services/mint"
	"pfpMint/services/roles"
)

const (
	imageRoute = "/nft-images"
	userAgent  = "pfpMint-backend"
)

func main() {
	env := envvars.GetEvn()
	setupLogger(env)
	ctx := context.Background()

	httpClient := resty.New().SetHeader("User-Agent", userAgent)

	contract := ethereum.NewContract(httpClient, env.EthRPCURL, env.ContractAddress)
	log.Info().Str("contractAddress", contract.Address()).Msg("contract configured")

	pinner := pinata.NewClient(
		resty.New().SetBaseURL(pinata.DefaultBaseURL).SetHeader("User-Agent", userAgent),
		env.PinataAPIKey,
		env.PinataSecretAPIKey,
	)

	var mirror imagestore.Mirror
	if env.GCSBucket != "" {
		bucket, err := gcp.NewBucket(ctx, env.GCSBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create image bucket client")
		}
		defer bucket.Close()
		mirror = bucket
		log.Info().Str("bucket", env.GCSBucket).Msg("mirroring images to cloud storage")
	}
	store := imagestore.New(env.ImageDir, mirror)

	var directory roles.Directory = roles.NewStatic()
	if env.GCPProject != "" {
		firestore, err := gcp.CreateFirestore(ctx, env.GCPProject)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create firestore client")
		}
		defer firestore.Close()
		directory = roles.NewFirestore(firestore)
	}

	discordService := discord.NewService(httpClient, discord.Config{
		ClientID:     env.DiscordClientID,
		ClientSecret: env.DiscordClientSecret,
		RedirectURI:  env.DiscordRedirectURI,
		GuildID:      env.DiscordGuildID,
	})
	mintService := mint.NewService(contract, directory, store, pinner)
	server := NewServer(discordService, artwork.NewGenerator(httpClient), store, mintService, contract.Address())

	swagger, err := api.GetSwagger()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load openapi document")
	}
	// Clear out the servers array in the swagger spec, that skips validating
	// that server names match. We don't know how this thing will be run.
	swagger.Servers = nil

	if envvars.IsProd(env) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := NewRouter(server, swagger)

	go func() {
		chainID, err := contract.ChainID(ctx)
		if err != nil {
			log.Error().Err(err).Msg("error during startup")
			return
		}
		log.Info().Str("chainID", chainID.String()).Msg("provider network")
	}()

	s := &http.Server{
		Handler: r,
		Addr:    "0.0.0.0:" + env.Port,
	}
	log.Info().Str("port", env.Port).Msg("starting HTTP server")
	if err := s.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func NewRouter(server Server, swagger *openapi3.T) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors.Default())
	r.SetHTMLTemplate(loadTemplates())

	r.GET("/", server.Index)
	r.GET("/login", server.Login)
	r.GET("/auth/callback", server.AuthCallback)
	r.GET("/auth/discord/callback", server.AuthCallback)
	r.POST("/mint",
		ginmiddleware.OapiRequestValidatorWithOptions(swagger, &ginmiddleware.Options{
			ErrorHandler: validationFailed,
		}),
		server.Mint,
	)
	r.Static(imageRoute, server.ImageStore.Dir())

	r.GET("/openapi", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/x-yaml", api.RawSpec())
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
