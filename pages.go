package main

import (
	"embed"
	"html/template"

	"pfpMint/services/discord"
	"pfpMint/services/imagestore"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	sepoliaChainID  = "0xaa36a7"
	sepoliaRPCURL   = "https://rpc.sepolia.org"
	sepoliaExplorer = "https://sepolia.etherscan.io"
)

// mintABI is the slice of the contract interface the page calls from the wallet.
const mintABI = `[{"inputs":[],"name":"mintOwnNFT","outputs":[],"stateMutability":"payable","type":"function"}]`

func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type mintPage struct {
	Username        string
	ImagePath       string
	ContractAddress string
	ContractABI     template.JS
	ChainID         string
	RPCURL          string
	ExplorerURL     string
}

func newMintPage(u discord.User, contractAddress string) mintPage {
	return mintPage{
		Username:        u.Username,
		ImagePath:       imagePath(u.ID),
		ContractAddress: contractAddress,
		ContractABI:     template.JS(mintABI),
		ChainID:         sepoliaChainID,
		RPCURL:          sepoliaRPCURL,
		ExplorerURL:     sepoliaExplorer,
	}
}

func imagePath(userID string) string {
	return imageRoute + "/" + imagestore.FileName(userID)
}
