// Package upstream liest den gerahmten Antwort-Stream des KI-Backends.
//
// client.go - HTTP-Client fuer das Backend
// Enthaelt: Client, NewClient, ClientFromEnvironment, Stream
//
// Das Backend antwortet mit rohem Text, in dem Reasoning-Grenze und
// Tool-Call-Payloads durch Sentinels markiert sind. Die Stuecke, in denen
// der Text ankommt, haben keinen Bezug zu diesen Sentinels.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"unicode/utf8"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/envconfig"
	"github.com/7blacky7/videocompanion/format"
	"github.com/7blacky7/videocompanion/version"
)

// ErrNotConfigured wird zurueckgegeben, wenn COMPANION_UPSTREAM fehlt
var ErrNotConfigured = errors.New("upstream is not configured, set COMPANION_UPSTREAM")

const readSize = 4 * format.KibiByte

type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(base *url.URL, http *http.Client) *Client {
	return &Client{base: base, http: http}
}

// ClientFromEnvironment erstellt einen Client fuer COMPANION_UPSTREAM.
// Das Timeout gilt nur bis zu den Response-Headern, der Stream selbst
// darf beliebig lange laufen.
func ClientFromEnvironment() (*Client, error) {
	base := envconfig.Upstream()
	if base == nil {
		return nil, ErrNotConfigured
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = envconfig.UpstreamTimeout()

	return NewClient(base, &http.Client{Transport: transport}), nil
}

// Stream sendet req an das Backend und ruft fn fuer jedes gelesene Stueck
// der Antwort auf. UTF-8-Zeichen werden nie ueber zwei Stuecke verteilt.
// Gibt fn einen Fehler zurueck, bricht Stream ab und gibt ihn zurueck.
// Ein Abbruch ueber ctx beendet die Verbindung.
func (c *Client) Stream(ctx context.Context, req *api.AskRequest, fn func(fragment string) error) error {
	bts, err := json.Marshal(req)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.String(), bytes.NewReader(bts))
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "text/plain")
	request.Header.Set("User-Agent", fmt.Sprintf("companion/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return statusError(response)
	}

	slog.Debug("upstream stream opened", "url", c.base.Redacted(), "status", response.Status)
	return readFragments(response.Body, fn)
}

// readFragments liest r in Stuecken und haelt unvollstaendige UTF-8-Sequenzen
// am Ende zurueck, bis der Rest angekommen ist.
func readFragments(r io.Reader, fn func(string) error) error {
	buf := make([]byte, readSize)
	var carry []byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := append(carry, buf[:n]...)
			cut := completePrefix(chunk)
			if cut > 0 {
				if ferr := fn(string(chunk[:cut])); ferr != nil {
					return ferr
				}
			}
			carry = append([]byte(nil), chunk[cut:]...)
		}

		if errors.Is(err, io.EOF) {
			// ungueltige Reste trotzdem ausliefern
			if len(carry) > 0 {
				return fn(string(carry))
			}
			return nil
		} else if err != nil {
			return err
		}
	}
}

// completePrefix gibt die Laenge des Praefixes von b zurueck, das nicht mit
// einer angefangenen UTF-8-Sequenz endet
func completePrefix(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return i
			}
			break
		}
	}
	return len(b)
}

func statusError(response *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(response.Body, 64*format.KibiByte))

	apiError := api.StatusError{StatusCode: response.StatusCode, Status: response.Status}
	if err := json.Unmarshal(body, &apiError); err != nil {
		apiError.ErrorMessage = string(bytes.TrimSpace(body))
	}
	return apiError
}
