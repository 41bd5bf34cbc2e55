package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/domain"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-cart/internal/pkg/interceptors/constants"
)

// Remote is the raw, unguarded catalog API.
type Remote interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	CheckAvailability(ctx context.Context, productID string, quantity int) (bool, error)
}

// StatusError is a non-2xx answer from the catalog other than 404.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog responded %d: %s", e.Code, e.Body)
}

// Transient reports whether retrying the same request could succeed.
func (e *StatusError) Transient() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

type productDTO struct {
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl"`
	Available     bool            `json:"available"`
	StockQuantity int             `json:"stockQuantity"`
}

// HTTPClient talks to the catalog REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ Remote = (*HTTPClient)(nil)

// NewHTTPClient builds a traced client. timeout bounds a single HTTP
// exchange; the gateway applies its own per-attempt deadline on top.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *HTTPClient) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(productID))

	var dto productDTO
	if err := c.getJSON(ctx, endpoint, &dto); err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		ID:            dto.ProductID,
		Name:          dto.Name,
		Description:   dto.Description,
		Price:         dto.Price,
		ImageURL:      dto.ImageURL,
		Available:     dto.Available,
		StockQuantity: dto.StockQuantity,
	}, nil
}

func (c *HTTPClient) CheckAvailability(ctx context.Context, productID string, quantity int) (bool, error) {
	q := url.Values{}
	q.Set("quantity", strconv.Itoa(quantity))
	endpoint := fmt.Sprintf("%s/products/%s/availability?%s", c.baseURL, url.PathEscape(productID), q.Encode())

	var available bool
	if err := c.getJSON(ctx, endpoint, &available); err != nil {
		return false, err
	}
	return available, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID := interceptors.GetMetadataValue(ctx, constants.HeaderXRequestId); reqID != "" {
		req.Header.Set(constants.HeaderXRequestId, reqID)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: GET %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, res.Body)
		return domain.ErrProductNotFound
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", endpoint, err)
	}
	return nil
}

// isPermanent tells the retry loop to give up immediately.
func isPermanent(err error) bool {
	if errors.Is(err, domain.ErrProductNotFound) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.Transient()
	}
	return false
}
