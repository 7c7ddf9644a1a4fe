package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/konstantinfoerster/card-printings-go/internal/aio"
	"github.com/konstantinfoerster/card-printings-go/internal/cards"
	"github.com/konstantinfoerster/card-printings-go/internal/config"
	"github.com/konstantinfoerster/card-printings-go/internal/web"
)

// maxPages stops following next_page links of a misbehaving endpoint.
const maxPages = 50

// ErrTooManyPages reports a result that was cut off after maxPages pages.
var ErrTooManyPages = errors.New("too many result pages")

func NewClient(cfg config.Scryfall, wclient web.Client) *Client {
	return &Client{
		cfg:     cfg,
		wclient: wclient,
	}
}

type Client struct {
	cfg     config.Scryfall
	wclient web.Client
}

// ListSets returns the metadata of all sets.
func (c *Client) ListSets(ctx context.Context) ([]cards.SetMetadata, error) {
	var sets []cards.SetMetadata
	err := c.paginate(ctx, "sets", func(next func(v any) error) (string, error) {
		var page SetList
		if err := next(&page); err != nil {
			return "", err
		}
		for _, s := range page.Data {
			sets = append(sets, cards.SetMetadata{
				Code:        s.Code,
				Name:        s.Name,
				IconURL:     s.IconSvgURI,
				ReleaseDate: s.ReleasedAt,
			})
		}

		return nextPage(page.HasMore, page.NextPage), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sets, %w", err)
	}

	return sets, nil
}

// ListSymbols returns all card symbols.
func (c *Client) ListSymbols(ctx context.Context) ([]cards.Symbol, error) {
	var symbols []cards.Symbol
	err := c.paginate(ctx, "symbology", func(next func(v any) error) (string, error) {
		var page SymbolList
		if err := next(&page); err != nil {
			return "", err
		}
		for _, s := range page.Data {
			symbols = append(symbols, cards.Symbol{
				Symbol:         s.Symbol,
				SVGURI:         s.SvgURI,
				English:        s.English,
				RepresentsMana: s.RepresentsMana,
			})
		}

		return nextPage(page.HasMore, page.NextPage), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols, %w", err)
	}

	return symbols, nil
}

// FindPrintings returns every paper printing of the card with exactly the given name.
// An error wrapping cards.ErrCardNotFound is returned if no such card exists.
func (c *Client) FindPrintings(ctx context.Context, name string) ([]cards.Printing, error) {
	var printings []cards.Printing
	err := c.paginate(ctx, SearchPath(name), func(next func(v any) error) (string, error) {
		var page SearchResult
		if err := next(&page); err != nil {
			return "", err
		}
		for _, sc := range page.Data {
			printings = append(printings, toPrinting(sc))
		}

		return nextPage(page.HasMore, page.NextPage), nil
	})
	if err != nil {
		if web.IsStatusCode(err, http.StatusNotFound) {
			err = errors.Join(err, cards.ErrCardNotFound)
		}

		return nil, fmt.Errorf("failed to find printings of %s, %w", name, err)
	}

	return printings, nil
}

// SearchPath builds the relative search url for all paper printings of the exact card name.
func SearchPath(name string) string {
	q := url.Values{}
	q.Set("q", fmt.Sprintf(`!"%s" game:paper`, strings.ReplaceAll(name, `"`, `\"`)))
	q.Set("unique", "prints")

	return "cards/search?" + q.Encode()
}

func toPrinting(sc Card) cards.Printing {
	typeLine := sc.TypeLine
	if typeLine == "" && len(sc.Faces) > 0 {
		typeLine = sc.Faces[0].TypeLine
	}

	return cards.Printing{
		SetName:         sc.SetName,
		SetCode:         sc.Set,
		Name:            sc.Name,
		ManaCost:        sc.FullManaCost(),
		ColorIdentity:   sc.ColorIdentity,
		TypeLine:        typeLine,
		Rarity:          sc.Rarity,
		CollectorNumber: sc.CollectorNumber,
		SetType:         sc.SetType,
		ReleaseDate:     sc.ReleasedAt,
	}
}

func nextPage(hasMore bool, next string) string {
	if !hasMore {
		return ""
	}

	return next
}

// paginate requests rawURL and calls page with a decoder for the response body until page
// returns no further url.
func (c *Client) paginate(ctx context.Context, rawURL string, page func(next func(v any) error) (string, error)) error {
	for i := 0; rawURL != ""; i++ {
		if i >= maxPages {
			return fmt.Errorf("%w, stopped after %d pages before %s", ErrTooManyPages, maxPages, rawURL)
		}

		u, err := c.cfg.EnsureBaseURL(rawURL)
		if err != nil {
			return fmt.Errorf("invalid url %s, %w", rawURL, err)
		}

		rawURL, err = c.fetch(ctx, u, page)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) fetch(ctx context.Context, u string, page func(next func(v any) error) (string, error)) (string, error) {
	opts := web.NewGetOpts().
		WithHeader(web.HeaderAccept, web.MimeTypeJSON).
		WithExpectedCodes(http.StatusOK)
	resp, err := c.wclient.Get(ctx, u, opts)
	if err != nil {
		return "", withDetails(err)
	}
	defer aio.Close(resp.Body)

	return page(func(v any) error {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response of %s, %w", u, err)
		}

		return nil
	})
}

// withDetails replaces the raw error body of a failed request with the details of the api error.
func withDetails(err error) error {
	apiErr, ok := web.AsAPIError(err)
	if !ok || !apiErr.MimeType.IsJSON() {
		return err
	}

	var body APIError
	if jErr := json.Unmarshal([]byte(apiErr.Message), &body); jErr != nil || body.Details == "" {
		return err
	}
	apiErr.Message = body.Details

	return err
}
