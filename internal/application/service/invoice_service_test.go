package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/cache"
	"github.com/sangkips/caisse-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *InvoiceService {
	t.Helper()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return NewInvoiceService(InvoiceOptions{CharWidth: 48, Location: paris}, nil, nil, nil, cache.NewNoopCache("test"), logger.Discard())
}

func comboInvoice() *entity.Invoice {
	root := uuid.New()
	comment := "sans oignons"
	return &entity.Invoice{
		OrderID: uuid.MustParse("9b2f6a1e-3c4d-4e5f-8a9b-0c1d2e3f4a5b"),
		Header: entity.InvoiceHeader{
			CompanyName:    "SAS Chez Nous",
			RestaurantName: "Chez Nous",
			Address:        "12 rue de la Paix",
			Phone:          "01 23 45 67 89",
			SiretNumber:    "123 456 789 00012",
			TVANumber:      "FR12123456789",
		},
		Number:        7,
		InvoiceNumber: 3,
		IssuedAt:      time.Date(2024, 3, 15, 11, 30, 0, 0, time.UTC),
		Lines: []entity.InvoiceLine{
			{ID: root, Name: "Menu Burger", Quantity: 1, UnitPrice: dec("8.00"), VATPercent: dec("10"), Comment: comment},
			{ID: uuid.New(), ParentID: &root, Name: "Cola", Quantity: 1, UnitPrice: dec("0"), VATPercent: dec("5.5")},
			{ID: uuid.New(), ParentID: &root, Name: "Ketchup", Quantity: 1, UnitPrice: dec("0"), VATPercent: dec("10")},
		},
		CashTendered: dec("10"),
	}
}

func TestBuildInvoiceLayout(t *testing.T) {
	s := newRenderer(t)

	layout, totals, err := s.BuildInvoice(comboInvoice())
	require.NoError(t, err)
	assert.True(t, dec("8.00").Equal(totals.TTC))

	text := layout.PlainText()
	assert.Contains(t, text, "Facture N° 3")
	assert.Contains(t, text, "Commande N° 7")
	assert.Contains(t, text, "15/03/2024 12:30")
	assert.Contains(t, text, "Réf. 9b2f6a1e-3c4d-4e5f-8a9b-0c1d2e3f4a5b")
	assert.Contains(t, text, "SIRET : 123 456 789 00012")

	lines := strings.Split(text, "\n")
	assert.Contains(t, lines, "  Cola x1")
	assert.Contains(t, lines, "  Ketchup x1")
	assert.Contains(t, lines, "  sans oignons")

	assert.Equal(t, "8,00€", rowValue(t, text, "Menu Burger x1"))
	assert.Equal(t, "7,27€", rowValue(t, text, "Total HT"))
	assert.Equal(t, "0,73€", rowValue(t, text, "TVA 10%"))
	assert.Equal(t, "0,00€", rowValue(t, text, "TVA 5,5%"))
	assert.Equal(t, "2,00€", rowValue(t, text, "Monnaie rendue"))
}

func TestBuildInvoicePrintsChildrenAfterTheirParent(t *testing.T) {
	s := newRenderer(t)
	inv := comboInvoice()
	// Stored order interleaves a later root before the children.
	later := entity.InvoiceLine{ID: uuid.New(), Name: "Eau", Quantity: 1, UnitPrice: dec("2"), VATPercent: dec("5.5")}
	inv.Lines = append([]entity.InvoiceLine{inv.Lines[0], later}, inv.Lines[1:]...)

	layout, _, err := s.BuildInvoice(inv)
	require.NoError(t, err)

	text := layout.PlainText()
	assert.Less(t, strings.Index(text, "Ketchup x1"), strings.Index(text, "Eau x1"))
}

func TestBuildInvoiceFailures(t *testing.T) {
	s := newRenderer(t)

	empty := comboInvoice()
	empty.Lines = nil

	badVAT := comboInvoice()
	badVAT.Lines[0].VATPercent = dec("100")

	orphan := comboInvoice()
	missing := uuid.New()
	orphan.Lines[1].ParentID = &missing

	unnumbered := comboInvoice()
	unnumbered.Number = 0

	short := comboInvoice()
	short.CashTendered = dec("5")

	for name, inv := range map[string]*entity.Invoice{
		"empty":      empty,
		"bad vat":    badVAT,
		"orphan":     orphan,
		"unnumbered": unnumbered,
		"short cash": short,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.BuildInvoice(inv)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindRender))
			assert.NotEmpty(t, apperror.GetAppError(err).Errors)
		})
	}
}

func TestBuildInvoiceIsDeterministic(t *testing.T) {
	s := newRenderer(t)
	inv := comboInvoice()

	a, totalsA, err := s.BuildInvoice(inv)
	require.NoError(t, err)
	b, totalsB, err := s.BuildInvoice(inv)
	require.NoError(t, err)

	assert.Equal(t, totalsA, totalsB)
	assert.Equal(t, a.PlainText(), b.PlainText())
}

func TestRenderPDFAndESCPOS(t *testing.T) {
	s := newRenderer(t)

	doc, _, err := s.RenderPDF(comboInvoice())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	raw, err := s.RenderESCPOS(comboInvoice())
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, []byte("Commande N\xf8 7")))
}

func TestGetInvoiceOfUnconfirmedOrder(t *testing.T) {
	env := newTestEnv(t)
	order := env.newOrder(t)

	_, err := env.invoices.GetInvoice(env.ctx, order.ID)
	assert.True(t, isConflict(err))

	_, err = env.invoices.GetInvoice(env.ctx, uuid.New())
	assert.True(t, isNotFound(err))
}

func TestGetInvoicePDF(t *testing.T) {
	env := newTestEnv(t)
	order := env.newOrder(t)
	env.addMenu(t, order.ID, 1, "Bière", "Ketchup")
	_, err := env.orders.Confirm(env.ctx, order.ID, dec("20"))
	require.NoError(t, err)

	doc, err := env.invoices.GetInvoicePDF(env.ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestSnapshotKeepsLinesWhenCatalogChanges(t *testing.T) {
	env := newTestEnv(t)
	order := env.newOrder(t)
	env.addLine(t, order.ID, "Burger", 1, "8.00", nil)
	result, err := env.orders.Confirm(env.ctx, order.ID, dec("10"))
	require.NoError(t, err)
	confirmed, _, err := env.invoices.BuildInvoice(mustSnapshot(t, env, result.Order))
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&entity.Item{}).Where("name = ?", "Burger").Updates(map[string]interface{}{
		"name":        "Burger XL",
		"price":       dec("9.90"),
		"tva_percent": dec("20"),
	}).Error)

	inv := mustSnapshot(t, env, result.Order)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Burger", inv.Lines[0].Name)
	assert.True(t, dec("8").Equal(inv.Lines[0].UnitPrice))
	assert.True(t, dec("10").Equal(inv.Lines[0].VATPercent))
	assert.Equal(t, *result.Order.Number, inv.Number)

	reprint, totals, err := env.invoices.BuildInvoice(inv)
	require.NoError(t, err)
	assert.Equal(t, confirmed.PlainText(), reprint.PlainText())
	assert.True(t, dec("7.27").Equal(totals.HT))
	assert.Equal(t, "0.73", totals.RateMap()["10"].StringFixed(2))

	view, err := env.carts.GetCart(env.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Burger", view.Lines[0].Name)
}

func mustSnapshot(t *testing.T, env *testEnv, order *entity.Order) *entity.Invoice {
	t.Helper()
	inv, err := env.invoices.Snapshot(env.ctx, order)
	require.NoError(t, err)
	return inv
}
