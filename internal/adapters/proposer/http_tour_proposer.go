package proposer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/platform/obs"
	"dispatch-tour-service/internal/ports"
)

// HTTPTourProposer asks an external route-optimization service to group
// orders into tour drafts. The service is a black box: its output is a
// proposal only, never trusted to write tours or orders.
type HTTPTourProposer struct {
	baseURL string
	apiKey  string
	session *http.Client
}

func NewHTTPTourProposer(baseURL, apiKey string) (*HTTPTourProposer, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("tour proposer: baseURL must be non-empty")
	}
	return &HTTPTourProposer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type proposeOrder struct {
	OrderID      string `json:"order_id"`
	Address      string `json:"address"`
	Tonnage      string `json:"tonnage"`
	DeliveryMode string `json:"delivery_mode"`
}

type proposeVehicle struct {
	MotorUnitCapacity string `json:"motor_unit_capacity"`
	TrailerCapacity   string `json:"trailer_capacity,omitempty"`
}

type proposeRequest struct {
	Orders   []proposeOrder   `json:"orders"`
	Vehicles []proposeVehicle `json:"vehicles"`
}

type proposeResponseTour struct {
	Name              string   `json:"name"`
	MotorUnitCapacity string   `json:"motor_unit_capacity"`
	TrailerCapacity   string   `json:"trailer_capacity"`
	OrderIDs          []string `json:"order_ids"`
}

type proposeResponse struct {
	Tours []proposeResponseTour `json:"tours"`
}

// ProposeTours posts the order and vehicle roster to the oracle and decodes
// its suggested grouping.
func (p *HTTPTourProposer) ProposeTours(
	ctx context.Context,
	orders []*domain.Order,
	vehicles []domain.VehicleConfig,
) (_ *ports.Proposal, err error) {
	defer obs.Time(ctx, "proposer.ProposeTours")(&err)

	reqBody := proposeRequest{
		Orders:   make([]proposeOrder, 0, len(orders)),
		Vehicles: make([]proposeVehicle, 0, len(vehicles)),
	}
	for _, o := range orders {
		reqBody.Orders = append(reqBody.Orders, proposeOrder{
			OrderID:      o.OrderID,
			Address:      o.Address,
			Tonnage:      o.Tonnage.String(),
			DeliveryMode: string(o.DeliveryMode),
		})
	}
	for _, v := range vehicles {
		pv := proposeVehicle{MotorUnitCapacity: v.MotorUnitCapacity.String()}
		if v.HasTrailer {
			pv.TrailerCapacity = v.TrailerCapacity.String()
		}
		reqBody.Vehicles = append(reqBody.Vehicles, pv)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("propose tours: marshal request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, p.baseURL+"/propose", bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("propose tours: %w", err)
	}
	defer resp.Body.Close()

	var decoded proposeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("propose tours: decode response: %w", err)
	}

	proposal := &ports.Proposal{Tours: make([]ports.ProposedTour, 0, len(decoded.Tours))}
	for i, t := range decoded.Tours {
		vehicle, err := parseVehicle(t.MotorUnitCapacity, t.TrailerCapacity)
		if err != nil {
			return nil, fmt.Errorf("propose tours: tour #%d: %w", i+1, err)
		}
		proposal.Tours = append(proposal.Tours, ports.ProposedTour{
			Name:     t.Name,
			Vehicle:  vehicle,
			OrderIDs: t.OrderIDs,
		})
	}

	return proposal, nil
}

func parseVehicle(unitCap, trailerCap string) (domain.VehicleConfig, error) {
	var v domain.VehicleConfig

	unit, err := decimal.NewFromString(unitCap)
	if err != nil {
		return v, fmt.Errorf("parse motor_unit_capacity %q: %w", unitCap, err)
	}
	v.MotorUnitCapacity = unit

	if strings.TrimSpace(trailerCap) != "" {
		trailer, err := decimal.NewFromString(trailerCap)
		if err != nil {
			return v, fmt.Errorf("parse trailer_capacity %q: %w", trailerCap, err)
		}
		v.TrailerCapacity = trailer
		v.HasTrailer = true
	}

	return v, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (p *HTTPTourProposer) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if p.apiKey != "" {
		req.Header.Set("Authorization", p.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (p *HTTPTourProposer) do(req *http.Request) (*http.Response, error) {
	resp, err := p.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 5xx responses)
// using exponential backoff while respecting context cancellation.
func (p *HTTPTourProposer) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := p.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
