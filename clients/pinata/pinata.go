// Package pinata pins files and JSON documents to IPFS through Pinata.
package pinata

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"pfpMint/errs"
)

const (
	DefaultBaseURL = "https://api.pinata.cloud"

	pinFilePath = "/pinning/pinFileToIPFS"
	pinJSONPath = "/pinning/pinJSONToIPFS"
)

// PinResponse is Pinata's answer to a successful pin.
type PinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type Client struct {
	http      *resty.Client
	apiKey    string
	secretKey string
}

// NewClient uses client as is; callers point it at DefaultBaseURL or a test server.
func NewClient(client *resty.Client, apiKey, secretKey string) *Client {
	return &Client{
		http:      client,
		apiKey:    apiKey,
		secretKey: secretKey,
	}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("pinata_api_key", c.apiKey).
		SetHeader("pinata_secret_api_key", c.secretKey)
}

// PinFile uploads data as a PNG file named fileName and returns its CID.
func (c *Client) PinFile(ctx context.Context, fileName string, data []byte) (string, error) {
	result := &PinResponse{}
	resp, err := c.request(ctx).
		SetMultipartField("file", fileName, "image/png", bytes.NewReader(data)).
		SetResult(result).
		Post(pinFilePath)
	if err != nil {
		return "", errs.E(errs.Upload, "pinata.PinFile", err)
	}
	if resp.IsError() {
		return "", errs.New(errs.Upload, "pinata.PinFile", fmt.Sprintf("status %s: %s", resp.Status(), resp.String()))
	}
	if result.IpfsHash == "" {
		return "", errs.New(errs.Upload, "pinata.PinFile", "response carried no IpfsHash")
	}
	log.Info().Str("fileName", fileName).Str("ipfsHash", result.IpfsHash).Msg("pinned file")
	return result.IpfsHash, nil
}

// PinJSON uploads v as a JSON document and returns its CID.
func (c *Client) PinJSON(ctx context.Context, v any) (string, error) {
	result := &PinResponse{}
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(v).
		SetResult(result).
		Post(pinJSONPath)
	if err != nil {
		return "", errs.E(errs.Upload, "pinata.PinJSON", err)
	}
	if resp.IsError() {
		return "", errs.New(errs.Upload, "pinata.PinJSON", fmt.Sprintf("status %s: %s", resp.Status(), resp.String()))
	}
	if result.IpfsHash == "" {
		return "", errs.New(errs.Upload, "pinata.PinJSON", "response carried no IpfsHash")
	}
	log.Info().Str("ipfsHash", result.IpfsHash).Msg("pinned json")
	return result.IpfsHash, nil
}
