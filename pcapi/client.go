package pcapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"pcluster/pcui/metrics"
	"pcluster/pcui/util"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"
	"github.com/rs/zerolog"
)

const signingService = "execute-api"

// Client calls the cluster API with SigV4 signed requests.
type Client struct {
	urls   *BaseURLs
	region string
	signer *v4.Signer
	http   *http.Client
	logger zerolog.Logger
	now    func() time.Time
}

func New(urls *BaseURLs, region string, creds *credentials.Credentials, logger zerolog.Logger) *Client {
	return &Client{
		urls:   urls,
		region: region,
		signer: v4.NewSigner(creds),
		http:   &http.Client{Timeout: 60 * time.Second},
		logger: logger,
		now:    time.Now,
	}
}

func (c *Client) URLs() *BaseURLs {
	return c.urls
}

// Send signs and performs a raw request against the API of the version
// selected in ctx. The caller closes the response body.
func (c *Client) Send(ctx context.Context, method, path string, query url.Values, body []byte, header http.Header) (*http.Response, error) {
	base, err := c.urls.BaseURL(VersionFrom(ctx))
	if err != nil {
		return nil, err
	}
	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return nil, util.NewError(err, "cannot build request")
	}
	req = req.WithContext(ctx)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	var reader io.ReadSeeker
	if len(body) > 0 {
		reader = bytes.NewReader(body)
		req.ContentLength = int64(len(body))
	}
	if _, err := c.signer.Sign(req, reader, signingService, c.region, c.now()); err != nil {
		return nil, util.NewError(err, "cannot sign request")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.APICalls.WithLabelValues(method, "error").Inc()
		return nil, util.NewError(err, "cluster api request failed")
	}
	metrics.APICalls.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("cluster api call")
	return resp, nil
}

// call sends in as JSON and decodes the answer into out. Non-2xx answers
// become *APIError.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body []byte
	header := http.Header{"Accept": []string{"application/json"}}
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return util.NewError(err, "cannot encode request")
		}
		body = encoded
		header.Set("Content-Type", "application/json")
	}
	resp, err := c.Send(ctx, method, path, query, body, header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	payload, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return util.NewError(err, "cannot read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return util.NewError(err, "cannot decode response")
	}
	return nil
}

func regionQuery(region string) url.Values {
	query := url.Values{}
	if region != "" {
		query.Set("region", region)
	}
	return query
}
