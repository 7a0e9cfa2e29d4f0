package sponte

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

// FetchAll walks every page of a list endpoint and returns the accumulated
// rows in page order, in-page order preserved. The page count reported by
// the first page bounds the walk; it is not re-validated against later
// responses. Pages that fail or come back empty are skipped — partial
// results are normal here, not exceptional, so no error is returned.
func (c *Client) FetchAll(ctx context.Context, endpoint string, params url.Values) []json.RawMessage {
	merged := url.Values{}
	for k, vs := range params {
		merged[k] = vs
	}
	merged.Set("pagina", "1")

	first, err := c.AuthorizedRequest(ctx, endpoint, merged)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("First page fetch failed")
		return nil
	}
	if first == nil || len(first.ListDados) == 0 {
		return nil
	}

	rows := first.ListDados
	if first.TotalPaginas <= 1 {
		return rows
	}

	c.log.Debug().
		Str("endpoint", endpoint).
		Int("total_pages", first.TotalPaginas).
		Msg("Walking pages")

	for page := 2; page <= first.TotalPaginas; page++ {
		merged.Set("pagina", strconv.Itoa(page))

		resp, err := c.AuthorizedRequest(ctx, endpoint, merged)
		if err != nil {
			c.log.Warn().Err(err).Str("endpoint", endpoint).Int("page", page).Msg("Skipping failed page")
			continue
		}
		if resp == nil || len(resp.ListDados) == 0 {
			continue
		}
		rows = append(rows, resp.ListDados...)
	}

	return rows
}

// decodeRows unmarshals raw rows into T, dropping rows that do not decode.
func decodeRows[T any](log zerolog.Logger, rows []json.RawMessage) []T {
	out := make([]T, 0, len(rows))
	for _, raw := range rows {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			log.Debug().Err(err).Msg("Dropping undecodable row")
			continue
		}
		out = append(out, v)
	}
	return out
}
