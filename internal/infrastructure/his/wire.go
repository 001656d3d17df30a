package his

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

// Formato de fecha que emite el HIS en dataOperacao/dataExpiracao.
const dateLayout = "2006-01-02"

// Tipos wire del HIS, con los nombres de campo que usa su API.

type produtoWire struct {
	ID        int64           `json:"id"`
	Descricao string          `json:"descricao"`
	Preco     decimal.Decimal `json:"preco"`
	Taxa      decimal.Decimal `json:"taxa"`
}

type armazemWire struct {
	ID         int64  `json:"id"`
	Designacao string `json:"designacao"`
}

type loteWire struct {
	ID            int64  `json:"id"`
	Designacao    string `json:"designacao"`
	DataExpiracao string `json:"dataExpiracao"`
	Activo        bool   `json:"activo"`
}

type linhaLoteWire struct {
	LotesID    int64           `json:"lotes_id"`
	ProdutoID  int64           `json:"produto_id"`
	Quantidade decimal.Decimal `json:"quantidade"` // llega como string decimal
}

type fornecedorWire struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	NIF      string `json:"nif"`
	Telefone string `json:"telefone"`
}

type linhaOperacaoWire struct {
	ArmazemID        int64           `json:"armazemId"`
	LotesID          int64           `json:"lotesId"`
	ProdutoID        int64           `json:"produtoId"`
	QuantidadeAntes  decimal.Decimal `json:"quantidadeAntes"`
	Quantidade       decimal.Decimal `json:"quantidade"`
	QuantidadeDepois decimal.Decimal `json:"quantidadeDepois"`
	ArmazemDestinoID *int64          `json:"armazemDestinoId,omitempty"`
	LotesDestinoID   *int64          `json:"lotesDestinoId,omitempty"`
}

type operacaoWire struct {
	ID           int64               `json:"id,omitempty"`
	DataOperacao string              `json:"dataOperacao"`
	TipoOperacao string              `json:"tipoOperacao"`
	UsuarioID    int64               `json:"usuarioId"`
	ArmazemID    int64               `json:"armazemId"`
	Descricao    string              `json:"descricao"`
	Linhas       []linhaOperacaoWire `json:"linhas"`
}

// newOperacaoPayload arma el cuerpo del POST/PUT compuesto.
func newOperacaoPayload(sub entity.OperationSubmission) operacaoWire {
	linhas := make([]linhaOperacaoWire, 0, len(sub.Lines))
	for _, l := range sub.Lines {
		linhas = append(linhas, linhaOperacaoWire{
			ArmazemID:        l.SourceWarehouseID,
			LotesID:          l.SourceLotID,
			ProdutoID:        l.ProductID,
			QuantidadeAntes:  l.QuantityBefore,
			Quantidade:       l.QuantityRequested,
			QuantidadeDepois: l.QuantityAfter,
			ArmazemDestinoID: l.DestWarehouseID,
			LotesDestinoID:   l.DestLotID,
		})
	}
	return operacaoWire{
		DataOperacao: sub.Date.Format(dateLayout),
		TipoOperacao: sub.Type,
		UsuarioID:    sub.UserID,
		ArmazemID:    sub.WarehouseID,
		Descricao:    sub.Description,
		Linhas:       linhas,
	}
}

func (w operacaoWire) toEntity() entity.Operation {
	lines := make([]entity.OperationLine, 0, len(w.Linhas))
	for _, l := range w.Linhas {
		lines = append(lines, entity.OperationLine{
			SourceWarehouseID: l.ArmazemID,
			SourceLotID:       l.LotesID,
			ProductID:         l.ProdutoID,
			QuantityBefore:    l.QuantidadeAntes,
			QuantityRequested: l.Quantidade,
			QuantityAfter:     l.QuantidadeDepois,
			DestWarehouseID:   l.ArmazemDestinoID,
			DestLotID:         l.LotesDestinoID,
		})
	}
	return entity.Operation{
		ID:          w.ID,
		Date:        parseDate(w.DataOperacao),
		Type:        w.TipoOperacao,
		UserID:      w.UsuarioID,
		WarehouseID: w.ArmazemID,
		Description: w.Descricao,
		Lines:       lines,
	}
}

// parseDate acepta fecha simple o RFC 3339; vacío o ilegible → zero time.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
