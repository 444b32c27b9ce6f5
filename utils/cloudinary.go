package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

const (
	MaxImageSize = 5 << 20
	uploadFolder = "hostel_pg_finder"
)

var ErrImageStoreDisabled = errors.New("image store not configured")

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "image_store_breaker_state",
		Help: "State of the image store circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ImageStore pushes an image to the media store and returns where it lives.
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader) (UploadResult, error)
}

type CloudinaryStore struct {
	cld     *cloudinary.Cloudinary
	timeout time.Duration
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL not set in environment")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, timeout: 30 * time.Second}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader) (UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       uploadFolder,
		ResourceType: "image",
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}

	return UploadResult{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// BreakerStore fails fast while the wrapped store keeps failing.
type BreakerStore struct {
	next ImageStore
	cb   *gobreaker.CircuitBreaker[UploadResult]
}

func NewBreakerStore(name string, next ImageStore) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Image store breaker state changed")
		},
	}
	breakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker[UploadResult](settings)}
}

func (s *BreakerStore) Upload(ctx context.Context, r io.Reader) (UploadResult, error) {
	return s.cb.Execute(func() (UploadResult, error) {
		return s.next.Upload(ctx, r)
	})
}

// DisabledStore is used when no media store is configured; every upload
// fails as an upstream error.
type DisabledStore struct{}

func (DisabledStore) Upload(context.Context, io.Reader) (UploadResult, error) {
	return UploadResult{}, ErrImageStoreDisabled
}
