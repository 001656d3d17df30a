package his

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hospisys/farmacia-stock/internal/domain"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

// Client acceso HTTP al backend hospitalario (HIS). Implementa ports.HISClient.
// Usa net/http de la stdlib; no requiere librerías de terceros.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. baseURL sin slash final.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchProducts GET /produto/all.
func (c *Client) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	var raw []produtoWire
	if err := c.getJSON(ctx, "/produto/all", &raw); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(raw))
	for _, p := range raw {
		out = append(out, entity.Product{
			ID:          p.ID,
			Description: p.Descricao,
			Price:       p.Preco,
			TaxRate:     p.Taxa,
		})
	}
	return out, nil
}

// FetchWarehouses GET /armazem/all.
func (c *Client) FetchWarehouses(ctx context.Context) ([]entity.Warehouse, error) {
	var raw []armazemWire
	if err := c.getJSON(ctx, "/armazem/all", &raw); err != nil {
		return nil, err
	}
	out := make([]entity.Warehouse, 0, len(raw))
	for _, w := range raw {
		out = append(out, entity.Warehouse{ID: w.ID, Designation: w.Designacao})
	}
	return out, nil
}

// FetchLots GET /lotes/all.
func (c *Client) FetchLots(ctx context.Context) ([]entity.Lot, error) {
	var raw []loteWire
	if err := c.getJSON(ctx, "/lotes/all", &raw); err != nil {
		return nil, err
	}
	out := make([]entity.Lot, 0, len(raw))
	for _, l := range raw {
		out = append(out, entity.Lot{
			ID:          l.ID,
			Designation: l.Designacao,
			ExpiresAt:   parseDate(l.DataExpiracao),
			Active:      l.Activo,
		})
	}
	return out, nil
}

// FetchLotLines GET /linhaslotes/all. quantidade llega como decimal-en-string.
func (c *Client) FetchLotLines(ctx context.Context) ([]entity.LotLine, error) {
	var raw []linhaLoteWire
	if err := c.getJSON(ctx, "/linhaslotes/all", &raw); err != nil {
		return nil, err
	}
	out := make([]entity.LotLine, 0, len(raw))
	for _, ll := range raw {
		out = append(out, entity.LotLine{
			LotID:     ll.LotesID,
			ProductID: ll.ProdutoID,
			Quantity:  ll.Quantidade,
		})
	}
	return out, nil
}

// FetchSuppliers GET /fornecedor/all.
func (c *Client) FetchSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	var raw []fornecedorWire
	if err := c.getJSON(ctx, "/fornecedor/all", &raw); err != nil {
		return nil, err
	}
	out := make([]entity.Supplier, 0, len(raw))
	for _, f := range raw {
		out = append(out, entity.Supplier{ID: f.ID, Name: f.Nome, NIF: f.NIF, Phone: f.Telefone})
	}
	return out, nil
}

// FetchOperations GET /operacao-stock/all.
func (c *Client) FetchOperations(ctx context.Context) ([]entity.Operation, error) {
	var raw []operacaoWire
	if err := c.getJSON(ctx, "/operacao-stock/all", &raw); err != nil {
		return nil, err
	}
	out := make([]entity.Operation, 0, len(raw))
	for _, op := range raw {
		out = append(out, op.toEntity())
	}
	return out, nil
}

// CreateOperation POST /operacao-stock/add-with-linhas. Una sola petición
// con la cabecera y todas las líneas; el HIS asigna el id.
func (c *Client) CreateOperation(ctx context.Context, sub entity.OperationSubmission) (*entity.Operation, error) {
	var resp operacaoWire
	if err := c.sendJSON(ctx, http.MethodPost, "/operacao-stock/add-with-linhas", newOperacaoPayload(sub), &resp); err != nil {
		return nil, err
	}
	op := resp.toEntity()
	return &op, nil
}

// UpdateOperation PUT /operacao-stock/edit-with-linhas/{id}.
func (c *Client) UpdateOperation(ctx context.Context, id int64, sub entity.OperationSubmission) (*entity.Operation, error) {
	var resp operacaoWire
	path := fmt.Sprintf("/operacao-stock/edit-with-linhas/%d", id)
	if err := c.sendJSON(ctx, http.MethodPut, path, newOperacaoPayload(sub), &resp); err != nil {
		return nil, err
	}
	op := resp.toEntity()
	return &op, nil
}

// DeleteOperation DELETE /operacao-stock/{id}.
func (c *Client) DeleteOperation(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/operacao-stock/%d", id), nil, nil)
}

// getJSON GET con decodificación JSON de la respuesta.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.sendJSON(ctx, http.MethodGet, path, nil, out)
}

// sendJSON emite la petición y decodifica la respuesta si out != nil.
// Respuestas fuera de 2xx se convierten en un error de dominio con el
// mensaje del HIS cuando viene en el cuerpo.
func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar petición %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("construir petición %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: respuesta ilegible de %s (%v)", domain.ErrUpstream, path, err)
	}
	return nil
}

// upstreamError extrae el mensaje de error del cuerpo cuando el HIS lo envía
// como {"message": "..."}; si no, usa un genérico con el código HTTP.
func upstreamError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("%w: %s (HTTP %d)", domain.ErrUpstream, payload.Message, resp.StatusCode)
	}
	return fmt.Errorf("%w: HTTP %d", domain.ErrUpstream, resp.StatusCode)
}
