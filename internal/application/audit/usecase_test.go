package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lechibang-1512/stockguard-api/internal/application/audit"
	"github.com/lechibang-1512/stockguard-api/internal/domain"
	"github.com/lechibang-1512/stockguard-api/internal/domain/entity"
	"github.com/lechibang-1512/stockguard-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeAuditRepo struct {
	sessions      map[string]*entity.AuditSession
	items         map[string]*entity.WorksheetItem
	discrepancies map[string]*entity.Discrepancy
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{
		sessions:      make(map[string]*entity.AuditSession),
		items:         make(map[string]*entity.WorksheetItem),
		discrepancies: make(map[string]*entity.Discrepancy),
	}
}

func (f *fakeAuditRepo) CreateSession(s *entity.AuditSession) error {
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeAuditRepo) GetSession(id string) (*entity.AuditSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeAuditRepo) GetSessionForUpdate(id string) (*entity.AuditSession, error) {
	return f.GetSession(id)
}

func (f *fakeAuditRepo) UpdateSession(s *entity.AuditSession) error {
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeAuditRepo) CreateItems(items []*entity.WorksheetItem) error {
	for _, item := range items {
		cp := *item
		f.items[item.ID] = &cp
	}
	return nil
}

func (f *fakeAuditRepo) GetItem(id string) (*entity.WorksheetItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (f *fakeAuditRepo) UpdateItem(item *entity.WorksheetItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeAuditRepo) ListItems(auditID string) ([]*entity.WorksheetItem, error) {
	var out []*entity.WorksheetItem
	for _, item := range f.items {
		if item.AuditID == auditID {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) CountUncounted(auditID string) (int, error) {
	n := 0
	for _, item := range f.items {
		if item.AuditID == auditID && item.CountedQty == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeAuditRepo) CreateDiscrepancy(d *entity.Discrepancy) error {
	cp := *d
	f.discrepancies[d.ID] = &cp
	return nil
}

func (f *fakeAuditRepo) GetDiscrepancyForUpdate(id string) (*entity.Discrepancy, error) {
	d, ok := f.discrepancies[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeAuditRepo) UpdateDiscrepancy(d *entity.Discrepancy) error {
	cp := *d
	f.discrepancies[d.ID] = &cp
	return nil
}

func (f *fakeAuditRepo) GetPendingDiscrepancyByItem(itemID string) (*entity.Discrepancy, error) {
	for _, d := range f.discrepancies {
		if d.WorksheetItemID == itemID && d.Status == entity.DiscrepancyPending {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAuditRepo) DeletePendingDiscrepancyByItem(itemID string) error {
	for id, d := range f.discrepancies {
		if d.WorksheetItemID == itemID && d.Status == entity.DiscrepancyPending {
			delete(f.discrepancies, id)
		}
	}
	return nil
}

func (f *fakeAuditRepo) CountPendingDiscrepancies(auditID string) (int, error) {
	n := 0
	for _, d := range f.discrepancies {
		if d.AuditID == auditID && d.Status == entity.DiscrepancyPending {
			n++
		}
	}
	return n, nil
}

func (f *fakeAuditRepo) ListDiscrepancies(auditID string) ([]*entity.Discrepancy, error) {
	var out []*entity.Discrepancy
	for _, d := range f.discrepancies {
		if d.AuditID == auditID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) { return f.GetByID(id) }
func (f *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error)       { return nil, nil }

func (f *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }

type fakeStockRepo struct {
	stocks map[string]*entity.LocationStock
}

func key(productID, warehouseID, zone string) string {
	return productID + "|" + warehouseID + "|" + zone
}

func (f *fakeStockRepo) Get(productID, warehouseID, zone string) (*entity.LocationStock, error) {
	s, ok := f.stocks[key(productID, warehouseID, zone)]
	if !ok {
		return &entity.LocationStock{ProductID: productID, WarehouseID: warehouseID, Zone: zone}, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStockRepo) GetForUpdate(productID, warehouseID, zone string) (*entity.LocationStock, error) {
	return f.Get(productID, warehouseID, zone)
}

func (f *fakeStockRepo) Upsert(stock *entity.LocationStock) error {
	cp := *stock
	f.stocks[key(stock.ProductID, stock.WarehouseID, stock.Zone)] = &cp
	return nil
}

func (f *fakeStockRepo) ListByScope(warehouseID, zone string) ([]*entity.LocationStock, error) {
	var out []*entity.LocationStock
	for _, s := range f.stocks {
		if s.WarehouseID != warehouseID {
			continue
		}
		if zone != "" && s.Zone != zone {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStockRepo) StampAudited(productID, warehouseID, zone string, at time.Time) error {
	if s, ok := f.stocks[key(productID, warehouseID, zone)]; ok {
		s.LastAuditedAt = &at
	}
	return nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (f *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	f.movements = append(f.movements, &cp)
	return nil
}

func (f *fakeMovementRepo) ListByProduct(string, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (f *fakeMovementRepo) ListByTransaction(string) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeLogRepo struct {
	entries []*entity.AuditLogEntry
}

func (f *fakeLogRepo) Append(e *entity.AuditLogEntry) error {
	cp := *e
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeLogRepo) ListByEntity(string, string, int, int) ([]*entity.AuditLogEntry, error) {
	return nil, nil
}

type fakeTxRunner struct {
	audits    *fakeAuditRepo
	products  *fakeProductRepo
	stocks    *fakeStockRepo
	movements *fakeMovementRepo
	logs      *fakeLogRepo
}

func (r *fakeTxRunner) RunAudit(ctx context.Context, fn func(
	auditRepo repository.AuditRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.LocationStockRepository,
	movRepo repository.StockMovementRepository,
	logRepo repository.AuditLogRepository,
) error) error {
	return fn(r.audits, r.products, r.stocks, r.movements, r.logs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var (
	warehouseActor = entity.Actor{ID: "user-wh", Role: entity.RoleWarehouse}
	adminActor     = entity.Actor{ID: "user-admin", Role: entity.RoleAdmin}
)

func newFixture() (*audit.WorkflowUseCase, *fakeTxRunner) {
	runner := &fakeTxRunner{
		audits:    newFakeAuditRepo(),
		products:  &fakeProductRepo{products: make(map[string]*entity.Product)},
		stocks:    &fakeStockRepo{stocks: make(map[string]*entity.LocationStock)},
		movements: &fakeMovementRepo{},
		logs:      &fakeLogRepo{},
	}
	return audit.NewWorkflowUseCase(runner), runner
}

// seedAuditWithItem crea producto, stock y una auditoría abierta con un
// único ítem de hoja cuyo SystemQty es systemQty.
func seedAuditWithItem(t *testing.T, uc *audit.WorkflowUseCase, runner *fakeTxRunner, systemQty int64) (auditID, itemID, productID string) {
	t.Helper()
	productID = uuid.New().String()
	require.NoError(t, runner.products.Create(&entity.Product{
		ID: productID, SKU: "SKU-1", Name: "Producto", Quantity: decimal.NewFromInt(systemQty),
	}))
	require.NoError(t, runner.stocks.Upsert(&entity.LocationStock{
		ProductID: productID, WarehouseID: "central", Zone: "A", Quantity: decimal.NewFromInt(systemQty),
	}))
	result, err := uc.CreateAudit(context.Background(), warehouseActor, audit.CreateInput{
		WarehouseID: "central",
		Zone:        "A",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	return result.Session.ID, result.Items[0].ID, productID
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateAudit
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateAudit_CongelaSnapshotDeUbicacionesConStock(t *testing.T) {
	uc, runner := newFixture()
	p1, p2, p3 := uuid.New().String(), uuid.New().String(), uuid.New().String()
	for _, seed := range []struct {
		productID string
		qty       int64
	}{{p1, 10}, {p2, 5}, {p3, 0}} {
		require.NoError(t, runner.stocks.Upsert(&entity.LocationStock{
			ProductID: seed.productID, WarehouseID: "central", Zone: "A",
			Quantity: decimal.NewFromInt(seed.qty),
		}))
	}

	result, err := uc.CreateAudit(context.Background(), warehouseActor, audit.CreateInput{
		WarehouseID: "central",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.AuditInProgress, result.Session.Status)
	assert.Equal(t, "cycle_count", result.Session.Type, "tipo por defecto")
	assert.Len(t, result.Items, 2, "las ubicaciones en cero no entran a la hoja")
	for _, item := range result.Items {
		assert.Nil(t, item.CountedQty, "los ítems nacen sin contar")
	}
	assert.NotEmpty(t, runner.logs.entries, "abrir auditoría deja bitácora")
}

func TestCreateAudit_SinBodegaRechazada(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.CreateAudit(context.Background(), warehouseActor, audit.CreateInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordCount y umbral de materialidad (10% exclusivo)
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordCount_VarianzaDelNuevePorCientoNoGeneraDiscrepancia(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)

	item, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(91))
	require.NoError(t, err)

	assert.True(t, item.Variance.Equal(decimal.NewFromInt(-9)))
	pending, _ := runner.audits.CountPendingDiscrepancies(auditID)
	assert.Zero(t, pending, "9% está bajo el umbral")
}

func TestRecordCount_VarianzaExactaDelDiezPorCientoNoGeneraDiscrepancia(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)

	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(90))
	require.NoError(t, err)

	pending, _ := runner.audits.CountPendingDiscrepancies(auditID)
	assert.Zero(t, pending, "el límite del 10% es exclusivo")
}

func TestRecordCount_VarianzaDelOncePorCientoGeneraDiscrepancia(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)

	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(89))
	require.NoError(t, err)

	pending, _ := runner.audits.CountPendingDiscrepancies(auditID)
	assert.Equal(t, 1, pending, "11% supera el umbral")
}

func TestRecordCount_SobranteTambienCuenta(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)

	// +10% exacto: sin discrepancia.
	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(110))
	require.NoError(t, err)
	pending, _ := runner.audits.CountPendingDiscrepancies(auditID)
	assert.Zero(t, pending)

	// +11%: discrepancia (la varianza se evalúa en valor absoluto).
	_, err = uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(111))
	require.NoError(t, err)
	pending, _ = runner.audits.CountPendingDiscrepancies(auditID)
	assert.Equal(t, 1, pending)
}

func TestRecordCount_ReconteoRederivaLaDiscrepancia(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)

	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(50))
	require.NoError(t, err)
	pending, _ := runner.audits.CountPendingDiscrepancies(auditID)
	require.Equal(t, 1, pending)

	// El reconteo dentro del umbral elimina la discrepancia anterior.
	_, err = uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(95))
	require.NoError(t, err)
	pending, _ = runner.audits.CountPendingDiscrepancies(auditID)
	assert.Zero(t, pending, "el reconteo reemplaza al conteo anterior")
}

func TestRecordCount_ReconteoMaterialConservaLaDiscrepancia(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)

	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(50))
	require.NoError(t, err)
	first, err := runner.audits.GetPendingDiscrepancyByItem(itemID)
	require.NoError(t, err)
	require.NotNil(t, first)

	// El reconteo sigue siendo material: la discrepancia pendiente es la misma.
	_, err = uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(60))
	require.NoError(t, err)
	second, err := runner.audits.GetPendingDiscrepancyByItem(itemID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID, "no se duplica ni se recrea la pendiente")

	pending, _ := runner.audits.CountPendingDiscrepancies(auditID)
	assert.Equal(t, 1, pending)
}

func TestRecordCount_SesionCerradaRechazada(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)

	session, _ := runner.audits.GetSession(auditID)
	session.Status = entity.AuditPendingApproval
	require.NoError(t, runner.audits.UpdateSession(session))

	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, domain.ErrInvalidState, "solo se cuenta con la sesión in_progress")
}

func TestRecordCount_ConteoNegativoRechazado(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)

	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolveDiscrepancy
// ──────────────────────────────────────────────────────────────────────────────

func recordDiscrepancy(t *testing.T, uc *audit.WorkflowUseCase, runner *fakeTxRunner, auditID, itemID string, counted int64) string {
	t.Helper()
	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(counted))
	require.NoError(t, err)
	d, err := runner.audits.GetPendingDiscrepancyByItem(itemID)
	require.NoError(t, err)
	require.NotNil(t, d)
	return d.ID
}

func TestResolveDiscrepancy_AdjustAplicaLaVarianza(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, productID := seedAuditWithItem(t, uc, runner, 100)
	discrepancyID := recordDiscrepancy(t, uc, runner, auditID, itemID, 80)

	d, err := uc.ResolveDiscrepancy(context.Background(), warehouseActor, audit.ResolveInput{
		DiscrepancyID: discrepancyID,
		Resolution:    entity.ResolutionAdjust,
		Reason:        "faltante confirmado en estiba",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DiscrepancyResolved, d.Status)

	stock, _ := runner.stocks.Get(productID, "central", "A")
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(80)), "el stock queda en lo contado")

	product, _ := runner.products.GetByID(productID)
	assert.True(t, product.Quantity.Equal(decimal.NewFromInt(80)), "el agregado acompaña la corrección")

	require.Len(t, runner.movements.movements, 1)
	mov := runner.movements.movements[0]
	assert.Equal(t, entity.MovementAdjustment, mov.Type)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(-20)), "la corrección lleva el signo de la varianza")
	assert.Equal(t, "faltante confirmado en estiba", mov.Reference)
}

func TestResolveDiscrepancy_AdjustSinMotivoRechazado(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)
	discrepancyID := recordDiscrepancy(t, uc, runner, auditID, itemID, 80)

	_, err := uc.ResolveDiscrepancy(context.Background(), warehouseActor, audit.ResolveInput{
		DiscrepancyID: discrepancyID,
		Resolution:    entity.ResolutionAdjust,
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "adjust exige motivo")
}

func TestResolveDiscrepancy_AcceptSystemNoMutaElLibro(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, productID := seedAuditWithItem(t, uc, runner, 100)
	discrepancyID := recordDiscrepancy(t, uc, runner, auditID, itemID, 80)

	d, err := uc.ResolveDiscrepancy(context.Background(), warehouseActor, audit.ResolveInput{
		DiscrepancyID: discrepancyID,
		Resolution:    entity.ResolutionAcceptSystem,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DiscrepancyResolved, d.Status)

	stock, _ := runner.stocks.Get(productID, "central", "A")
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(100)), "accept_system descarta el conteo físico")
	assert.Empty(t, runner.movements.movements, "sin corrección no hay fila en el libro")
}

func TestResolveDiscrepancy_YaResueltaRechazada(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)
	discrepancyID := recordDiscrepancy(t, uc, runner, auditID, itemID, 80)

	_, err := uc.ResolveDiscrepancy(context.Background(), warehouseActor, audit.ResolveInput{
		DiscrepancyID: discrepancyID,
		Resolution:    entity.ResolutionAcceptSystem,
	})
	require.NoError(t, err)

	_, err = uc.ResolveDiscrepancy(context.Background(), warehouseActor, audit.ResolveInput{
		DiscrepancyID: discrepancyID,
		Resolution:    entity.ResolutionAcceptSystem,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// CompleteAudit / ApproveAudit
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteAudit_BloqueadaConItemsSinContar(t *testing.T) {
	uc, runner := newFixture()
	auditID, _, _ := seedAuditWithItem(t, uc, runner, 100)

	_, err := uc.CompleteAudit(context.Background(), warehouseActor, auditID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se cierra con ítems sin contar")
}

func TestCompleteAudit_BloqueadaConDiscrepanciaPendiente(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)
	recordDiscrepancy(t, uc, runner, auditID, itemID, 80)

	_, err := uc.CompleteAudit(context.Background(), warehouseActor, auditID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se cierra con discrepancias pendientes")
}

func TestCompleteAudit_TransicionaAPendingApproval(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)
	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(100))
	require.NoError(t, err)

	session, err := uc.CompleteAudit(context.Background(), warehouseActor, auditID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditPendingApproval, session.Status)
	assert.NotNil(t, session.CompletedAt)
}

func TestApproveAudit_SoloAdministradores(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, _ := seedAuditWithItem(t, uc, runner, 100)
	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = uc.CompleteAudit(context.Background(), warehouseActor, auditID)
	require.NoError(t, err)

	_, err = uc.ApproveAudit(context.Background(), warehouseActor, auditID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "aprobar es privilegio de admin")

	session, err := uc.ApproveAudit(context.Background(), adminActor, auditID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditCompleted, session.Status)
	assert.Equal(t, adminActor.ID, session.ApprovedBy)
}

func TestApproveAudit_EstampaUltimaAuditoria(t *testing.T) {
	uc, runner := newFixture()
	auditID, itemID, productID := seedAuditWithItem(t, uc, runner, 100)
	_, err := uc.RecordCount(context.Background(), warehouseActor, auditID, itemID, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = uc.CompleteAudit(context.Background(), warehouseActor, auditID)
	require.NoError(t, err)
	_, err = uc.ApproveAudit(context.Background(), adminActor, auditID)
	require.NoError(t, err)

	stock, _ := runner.stocks.Get(productID, "central", "A")
	assert.NotNil(t, stock.LastAuditedAt, "la aprobación estampa la ubicación")
}

func TestApproveAudit_RequierePendingApproval(t *testing.T) {
	uc, runner := newFixture()
	auditID, _, _ := seedAuditWithItem(t, uc, runner, 100)

	_, err := uc.ApproveAudit(context.Background(), adminActor, auditID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no hay salto in_progress -> completed")
}
