package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"telegram-translation-gate/internal/config"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/adapter"
)

// Ensure implementation satisfies the port.
var _ adapter.PaymentIndexer = (*TronGridIndexer)(nil)

// usdtDecimals is the TRC20 USDT precision, used when the indexer response
// omits token_info.decimals.
const usdtDecimals = 6

// TronGridIndexer confirms USDT deposits by querying the TronGrid TRC20
// transfer index. Deposit addresses come from a configured pool; the chat id
// picks a stable pool slot so repeated invoices for one chat reuse the same
// address.
type TronGridIndexer struct {
	apiKey      string
	baseURL     string
	contract    string
	depositPool []string
	client      *http.Client
}

func NewTronGridIndexer(cfg *config.TronConfig) (*TronGridIndexer, error) {
	if len(cfg.DepositPool) == 0 {
		return nil, fmt.Errorf("tron: deposit pool is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TronGridIndexer{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		contract:    cfg.ContractAddress,
		depositPool: cfg.DepositPool,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

// CreateDepositAddress hands out a pool address for the chat and a fresh
// order reference identifying the expected payment.
func (g *TronGridIndexer) CreateDepositAddress(ctx context.Context, chatID int64) (string, string, error) {
	slot := int(uint64(chatID) % uint64(len(g.depositPool)))
	return g.depositPool[slot], uuid.NewString(), nil
}

type trc20Transfer struct {
	TransactionID string `json:"transaction_id"`
	TokenInfo     struct {
		Address  string `json:"address"`
		Decimals int    `json:"decimals"`
		Symbol   string `json:"symbol"`
	} `json:"token_info"`
	BlockTimestamp int64  `json:"block_timestamp"`
	From           string `json:"from"`
	To             string `json:"to"`
	Type           string `json:"type"`
	Value          string `json:"value"`
}

type trc20Response struct {
	Data    []trc20Transfer `json:"data"`
	Success bool            `json:"success"`
}

// ConfirmedAmount sums every confirmed inbound transfer to the invoice's
// deposit address since the invoice was created.
func (g *TronGridIndexer) ConfirmedAmount(ctx context.Context, inv *model.PaymentInvoice) (float64, error) {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/transactions/trc20", g.baseURL, inv.DepositAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	q := url.Values{}
	q.Set("only_confirmed", "true")
	q.Set("only_to", "true")
	q.Set("limit", "200")
	q.Set("contract_address", g.contract)
	q.Set("min_timestamp", strconv.FormatInt(inv.CreatedAt.UnixMilli(), 10))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("TRON-PRO-API-KEY", g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to query trongrid: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("trongrid error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response trc20Response
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	if !response.Success {
		return 0, fmt.Errorf("trongrid error: success=false, body: %s", string(body))
	}

	var total float64
	for _, tx := range response.Data {
		if tx.Type != "Transfer" || tx.To != inv.DepositAddress {
			continue
		}
		if g.contract != "" && tx.TokenInfo.Address != g.contract {
			continue
		}
		raw, err := strconv.ParseInt(tx.Value, 10, 64)
		if err != nil {
			continue
		}
		decimals := tx.TokenInfo.Decimals
		if decimals <= 0 {
			decimals = usdtDecimals
		}
		total += float64(raw) / math.Pow10(decimals)
	}
	return total, nil
}
