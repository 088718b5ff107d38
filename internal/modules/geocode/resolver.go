package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const userAgent = "mavina-backend/1.0"

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	errNoResult           = errors.New("no address found")
)

type Result struct {
	Address  string `json:"address"`
	Source   string `json:"source"`
	Fallback bool   `json:"fallback"`
}

type Options struct {
	GoogleAPIKey string
	GoogleURL    string
	NominatimURL string
	Timeout      time.Duration
	CacheTTL     time.Duration
}

// Resolver turns coordinates into a human readable address. Google is tried
// first when a key is configured, then Nominatim.
type Resolver struct {
	http  *http.Client
	opts  Options
	cache Cache
	log   *zap.Logger
}

func NewResolver(opts Options, cache Cache, log *zap.Logger) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 7 * 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		http:  &http.Client{Timeout: opts.Timeout},
		opts:  opts,
		cache: cache,
		log:   log.Named("geocode"),
	}
}

// validCoordinates also rejects NaN and ±Inf, which fail every range comparison.
func validCoordinates(lat, lng float64) bool {
	for _, v := range []float64{lat, lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Reverse never fails for valid coordinates: when every provider fails the
// result is the "lat, lng" string with Fallback set.
func (r *Resolver) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	if !validCoordinates(lat, lng) {
		return nil, ErrInvalidCoordinates
	}

	key := CacheKey(lat, lng)
	if r.cache != nil {
		if addr, ok, err := r.cache.Get(ctx, key); err != nil {
			r.log.Warn("geocode cache read failed", zap.Error(err))
		} else if ok {
			return &Result{Address: addr, Source: "cache"}, nil
		}
	}

	type provider struct {
		name string
		fn   func(context.Context, float64, float64) (string, error)
	}
	var providers []provider
	if r.opts.GoogleAPIKey != "" && r.opts.GoogleURL != "" {
		providers = append(providers, provider{"google", r.google})
	}
	if r.opts.NominatimURL != "" {
		providers = append(providers, provider{"nominatim", r.nominatim})
	}

	for _, p := range providers {
		addr, err := p.fn(ctx, lat, lng)
		if err != nil {
			r.log.Debug("reverse geocode failed", zap.String("provider", p.name), zap.Error(err))
			continue
		}
		if r.cache != nil {
			if err := r.cache.Set(ctx, key, addr, r.opts.CacheTTL); err != nil {
				r.log.Warn("geocode cache write failed", zap.Error(err))
			}
		}
		return &Result{Address: addr, Source: p.name}, nil
	}

	return &Result{Address: Fallback(lat, lng), Source: "coordinates", Fallback: true}, nil
}

func Fallback(lat, lng float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lng)
}

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

func (r *Resolver) google(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("latlng", coord(lat)+","+coord(lng))
	q.Set("key", r.opts.GoogleAPIKey)
	q.Set("language", "tr")

	var out googleResponse
	if err := r.getJSON(ctx, r.opts.GoogleURL+"?"+q.Encode(), &out); err != nil {
		return "", err
	}
	if out.Status != "OK" || len(out.Results) == 0 || out.Results[0].FormattedAddress == "" {
		return "", fmt.Errorf("google status %q: %w", out.Status, errNoResult)
	}
	return out.Results[0].FormattedAddress, nil
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (r *Resolver) nominatim(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", coord(lat))
	q.Set("lon", coord(lng))
	q.Set("accept-language", "tr")

	var out nominatimResponse
	if err := r.getJSON(ctx, r.opts.NominatimURL+"?"+q.Encode(), &out); err != nil {
		return "", err
	}
	if out.DisplayName == "" {
		return "", fmt.Errorf("nominatim %q: %w", out.Error, errNoResult)
	}
	return out.DisplayName, nil
}

func (r *Resolver) getJSON(ctx context.Context, u string, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
