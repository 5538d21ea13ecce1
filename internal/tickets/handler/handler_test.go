package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ticketdesk_backend/internal/access"
	"ticketdesk_backend/internal/events"
	"ticketdesk_backend/internal/session"
	"ticketdesk_backend/internal/tickets/service"
	"ticketdesk_backend/internal/tickets/store"
	"ticketdesk_backend/platform/logger"
	"ticketdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, actor *session.Actor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	svc := service.NewService(store.NewMemoryStore(), nil, events.NewInMemoryBus(log), log)
	h := New(svc, validator.New())

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(access.ContextActorKey, actor)
		c.Next()
	})
	h.RegisterRoutes(engine.Group("/tickets"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateThenListByCompany(t *testing.T) {
	actor := &session.Actor{Kind: session.ActorCustomer, Username: "adidas-acct", Role: session.RoleCustomer, Company: "Adidas"}
	engine := newTestRouter(t, actor)

	rec := doJSON(t, engine, http.MethodPost, "/tickets", `{"title":"Checkout broken","description":"Payment step fails","company":"Adidas"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created store.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Errorf("expected generated id and created_at, got %+v", created)
	}
	if created.Status != store.StatusOpen {
		t.Errorf("expected status open, got %q", created.Status)
	}

	rec = doJSON(t, engine, http.MethodGet, "/tickets?company=Adidas", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var listResp struct {
		Tickets []store.Ticket `json:"tickets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	found := false
	for _, tk := range listResp.Tickets {
		if tk.ID == created.ID {
			found = true
			if tk.Status != store.StatusOpen {
				t.Errorf("listed ticket lost its open status: %q", tk.Status)
			}
		}
	}
	if !found {
		t.Fatalf("created ticket missing from company listing: %s", rec.Body.String())
	}
}

func TestCreateValidation(t *testing.T) {
	actor := &session.Actor{Kind: session.ActorCustomer, Username: "acct", Role: session.RoleCustomer, Company: "Nike"}
	engine := newTestRouter(t, actor)

	rec := doJSON(t, engine, http.MethodPost, "/tickets", `{"title":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", rec.Code)
	}
}

func TestListStatusFilter(t *testing.T) {
	actor := &session.Actor{Kind: session.ActorCustomer, Username: "acct", Role: session.RoleCustomer, Company: "Nike"}
	engine := newTestRouter(t, actor)

	for _, title := range []string{"first ticket", "second ticket"} {
		rec := doJSON(t, engine, http.MethodPost, "/tickets", `{"title":"`+title+`","description":"details here","company":"Nike"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create: expected 201, got %d", rec.Code)
		}
	}

	rec := doJSON(t, engine, http.MethodGet, "/tickets?status=done", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var listResp struct {
		Tickets []store.Ticket `json:"tickets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listResp.Tickets) != 0 {
		t.Fatalf("expected no done tickets, got %d", len(listResp.Tickets))
	}
}

func TestUpdateStatusRoundTrip(t *testing.T) {
	actor := &session.Actor{Kind: session.ActorMock, Email: "admin", Role: session.RoleSuperAdmin}
	engine := newTestRouter(t, actor)

	rec := doJSON(t, engine, http.MethodPost, "/tickets", `{"title":"Fix the build","description":"Pipeline is red","company":"Nike"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	var created store.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	rec = doJSON(t, engine, http.MethodPut, "/tickets/"+created.ID, `{"status":"done"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated store.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Status != store.StatusDone {
		t.Errorf("expected status done, got %q", updated.Status)
	}
	last := updated.History[len(updated.History)-1]
	if last.Action != store.ActionStatusChanged || last.Status != store.StatusDone {
		t.Errorf("unexpected last history entry: %+v", last)
	}
}

func TestUpdateStatusUnknownTicketIs404(t *testing.T) {
	actor := &session.Actor{Kind: session.ActorMock, Email: "admin", Role: session.RoleSuperAdmin}
	engine := newTestRouter(t, actor)

	rec := doJSON(t, engine, http.MethodPut, "/tickets/nope", `{"status":"done"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAddMessageEndpoint(t *testing.T) {
	actor := &session.Actor{Kind: session.ActorCustomer, Username: "acct", Role: session.RoleCustomer, Company: "Nike"}
	engine := newTestRouter(t, actor)

	rec := doJSON(t, engine, http.MethodPost, "/tickets", `{"title":"Slow search","description":"Takes ten seconds","company":"Nike"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	var created store.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	rec = doJSON(t, engine, http.MethodPost, "/tickets/"+created.ID+"/messages", `{"content":"Still happening today."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("message: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated store.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode message response: %v", err)
	}
	if len(updated.Messages) != 1 || updated.Messages[0].Content != "Still happening today." {
		t.Fatalf("message not appended: %+v", updated.Messages)
	}
}

func TestDeactivateEndpoint(t *testing.T) {
	log := logger.New("development")
	svc := service.NewService(store.NewMemoryStore(), nil, events.NewInMemoryBus(log), log)
	val := validator.New()
	gin.SetMode(gin.TestMode)

	routerFor := func(actor *session.Actor) *gin.Engine {
		engine := gin.New()
		engine.Use(func(c *gin.Context) {
			c.Set(access.ContextActorKey, actor)
			c.Next()
		})
		New(svc, val).RegisterRoutes(engine.Group("/tickets"))
		return engine
	}

	customer := routerFor(&session.Actor{Kind: session.ActorCustomer, Username: "acct", Role: session.RoleCustomer, Company: "Nike"})
	manager := routerFor(&session.Actor{Kind: session.ActorRegularUser, Email: "mgr@example.com", Role: session.RoleCustomerManager, Company: "Nike", IsCustomerManager: true})

	rec := doJSON(t, customer, http.MethodPost, "/tickets", `{"title":"Broken link","description":"Footer link 404s","company":"Nike"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	var created store.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	// Same store, manager actor: deactivation is refused.
	rec = doJSON(t, manager, http.MethodPost, "/tickets/"+created.ID+"/deactivate", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("manager deactivate: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, customer, http.MethodPost, "/tickets/"+created.ID+"/deactivate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("customer deactivate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated store.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode deactivate response: %v", err)
	}
	if !updated.IsDeactivated {
		t.Error("expected ticket deactivated")
	}
}
