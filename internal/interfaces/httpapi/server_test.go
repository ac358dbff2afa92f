package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"golang.org/x/crypto/bcrypt"

	"github.com/thudson/golf-scorecard/internal/infrastructure/repository/memory"
	idgen "github.com/thudson/golf-scorecard/internal/platform/id"
	"github.com/thudson/golf-scorecard/internal/platform/logging"
	"github.com/thudson/golf-scorecard/internal/platform/token"
	"github.com/thudson/golf-scorecard/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	courseRepo := memory.NewCourseRepository()
	roundRepo := memory.NewRoundRepository(courseRepo)
	userRepo := memory.NewUserRepository(courseRepo, roundRepo)

	tokens, err := token.NewJWTManager("server-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}

	logger := logging.NewNop()
	ids := idgen.NewRandomGenerator()

	authService := usecase.NewAuthService(userRepo, tokens, ids, bcrypt.MinCost, logger)
	userService := usecase.NewUserService(userRepo, bcrypt.MinCost)
	courseService := usecase.NewCourseService(courseRepo, ids)
	roundService := usecase.NewRoundService(roundRepo, courseRepo, userRepo, ids, logger)
	statsService := usecase.NewStatsService(roundRepo)
	importService := usecase.NewImportService(roundService, 2, logger)

	handler := NewHandler(authService, userService, courseService, roundService, statsService, importService, logger)
	server := httptest.NewServer(NewRouter(handler, tokens, logger, []string{"*"}))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, client *http.Client, method, url, bearer, body string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var envelope map[string]any
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, envelope
}

func registerTestUser(t *testing.T, client *http.Client, baseURL, email string) string {
	t.Helper()

	payload := fmt.Sprintf(`{"email":%q,"password":"password123","firstName":"Alex","lastName":"Reed"}`, email)
	status, envelope := doJSON(t, client, http.MethodPost, baseURL+"/v1/auth/register", "", payload)
	if status != http.StatusCreated {
		t.Fatalf("register: expected status 201, got %d (%v)", status, envelope)
	}
	data := envelope["data"].(map[string]any)
	tok, _ := data["token"].(string)
	if tok == "" {
		t.Fatalf("register: expected token in response, got %v", data)
	}
	return tok
}

func TestRouter_HealthzBypassesAuth(t *testing.T) {
	server := newTestServer(t)

	status, envelope := doJSON(t, server.Client(), http.MethodGet, server.URL+"/healthz", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", status)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("unexpected healthz payload: %v", envelope)
	}
}

func TestRouter_AuthorizedRoutesRejectAnonymous(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, server.Client(), http.MethodGet, server.URL+"/v1/rounds", "", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}
}

func TestRouter_RoundLifecycle(t *testing.T) {
	server := newTestServer(t)
	client := server.Client()

	bearer := registerTestUser(t, client, server.URL, "alex@example.com")

	status, envelope := doJSON(t, client, http.MethodPost, server.URL+"/v1/courses", bearer,
		`{"name":"Sunset Pines","holeCount":3,"holeLengths":[120,250,310]}`)
	if status != http.StatusCreated {
		t.Fatalf("create course: expected status 201, got %d (%v)", status, envelope)
	}
	courseData := envelope["data"].(map[string]any)
	courseID := courseData["id"].(string)
	holes := courseData["holes"].([]any)
	if len(holes) != 3 {
		t.Fatalf("expected 3 holes, got %d", len(holes))
	}
	firstHole := holes[0].(map[string]any)
	holeID := firstHole["id"].(string)

	status, envelope = doJSON(t, client, http.MethodPost, server.URL+"/v1/rounds", bearer,
		fmt.Sprintf(`{"courseId":%q,"playerNames":["Guest Player"]}`, courseID))
	if status != http.StatusCreated {
		t.Fatalf("create round: expected status 201, got %d (%v)", status, envelope)
	}
	roundData := envelope["data"].(map[string]any)
	roundID := roundData["id"].(string)
	players := roundData["players"].([]any)
	if len(players) != 2 {
		t.Fatalf("expected 2 players (owner + guest), got %d", len(players))
	}
	ownerPlayer := players[0].(map[string]any)
	playerID := ownerPlayer["id"].(string)
	if scores := ownerPlayer["scores"].([]any); len(scores) != 3 {
		t.Fatalf("expected score skeleton covering 3 holes, got %d", len(scores))
	}

	scoreURL := fmt.Sprintf("%s/v1/rounds/%s/players/%s/holes/%s/score", server.URL, roundID, playerID, holeID)
	status, envelope = doJSON(t, client, http.MethodPatch, scoreURL, bearer, `{"strokes":4}`)
	if status != http.StatusOK {
		t.Fatalf("update score: expected status 200, got %d (%v)", status, envelope)
	}
	scoreData := envelope["data"].(map[string]any)
	if got := scoreData["strokes"].(float64); got != 4 {
		t.Fatalf("expected strokes=4, got %v", got)
	}

	status, envelope = doJSON(t, client, http.MethodPatch, server.URL+"/v1/rounds/"+roundID+"/status", bearer,
		`{"status":"COMPLETED"}`)
	if status != http.StatusOK {
		t.Fatalf("complete round: expected status 200, got %d (%v)", status, envelope)
	}

	status, envelope = doJSON(t, client, http.MethodGet, server.URL+"/v1/stats/rounds/"+roundID, bearer, "")
	if status != http.StatusOK {
		t.Fatalf("round stats: expected status 200, got %d (%v)", status, envelope)
	}
	statsData := envelope["data"].(map[string]any)
	statPlayers := statsData["players"].([]any)
	if len(statPlayers) != 2 {
		t.Fatalf("expected 2 stat lines, got %d", len(statPlayers))
	}

	status, envelope = doJSON(t, client, http.MethodGet, server.URL+"/v1/stats/player", bearer, "")
	if status != http.StatusOK {
		t.Fatalf("player stats: expected status 200, got %d (%v)", status, envelope)
	}
	playerStats := envelope["data"].(map[string]any)
	if got := playerStats["totalRounds"].(float64); got != 1 {
		t.Fatalf("expected totalRounds=1, got %v", got)
	}
}

func TestRouter_RoundAccessIsGuarded(t *testing.T) {
	server := newTestServer(t)
	client := server.Client()

	owner := registerTestUser(t, client, server.URL, "owner@example.com")
	stranger := registerTestUser(t, client, server.URL, "stranger@example.com")

	status, envelope := doJSON(t, client, http.MethodPost, server.URL+"/v1/courses", owner,
		`{"name":"Sunset Pines","holeCount":1}`)
	if status != http.StatusCreated {
		t.Fatalf("create course: expected status 201, got %d (%v)", status, envelope)
	}
	courseID := envelope["data"].(map[string]any)["id"].(string)

	status, envelope = doJSON(t, client, http.MethodPost, server.URL+"/v1/rounds", owner,
		fmt.Sprintf(`{"courseId":%q}`, courseID))
	if status != http.StatusCreated {
		t.Fatalf("create round: expected status 201, got %d (%v)", status, envelope)
	}
	roundID := envelope["data"].(map[string]any)["id"].(string)

	status, envelope = doJSON(t, client, http.MethodGet, server.URL+"/v1/rounds/"+roundID, stranger, "")
	if status != http.StatusForbidden {
		t.Fatalf("expected status 403 for stranger, got %d (%v)", status, envelope)
	}
	errorObj := envelope["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "PERMISSION_DENIED" {
		t.Fatalf("expected PERMISSION_DENIED, got %v", got)
	}
}

func TestRouter_ImportRounds(t *testing.T) {
	server := newTestServer(t)
	client := server.Client()

	bearer := registerTestUser(t, client, server.URL, "alex@example.com")
	status, envelope := doJSON(t, client, http.MethodPost, server.URL+"/v1/courses", bearer,
		`{"name":"Sunset Pines","holeCount":2}`)
	if status != http.StatusCreated {
		t.Fatalf("create course: expected status 201, got %d (%v)", status, envelope)
	}
	courseID := envelope["data"].(map[string]any)["id"].(string)

	status, envelope = doJSON(t, client, http.MethodPost, server.URL+"/v1/rounds/import", bearer,
		fmt.Sprintf(`{"rounds":[{"courseId":%q,"players":[{"name":"Sam","strokes":[4,5]}]}]}`, courseID))
	if status != http.StatusOK {
		t.Fatalf("import: expected status 200, got %d (%v)", status, envelope)
	}

	data := envelope["data"].(map[string]any)
	if got := data["roundCount"].(float64); got != 1 {
		t.Fatalf("expected roundCount=1, got %v", got)
	}
	if got := data["successCount"].(float64); got != 1 {
		t.Fatalf("expected successCount=1, got %v (%v)", got, data)
	}
	rows := data["rounds"].([]any)
	row := rows[0].(map[string]any)
	if row["status"] != "success" {
		t.Fatalf("imported row = %v", row)
	}
	if _, ok := row["roundId"].(string); !ok {
		t.Fatalf("expected roundId in imported row, got %v", row)
	}
	if _, ok := row["durationMs"]; !ok {
		t.Fatalf("expected durationMs in imported row, got %v", row)
	}
}

func TestRouter_SearchIsPublic(t *testing.T) {
	server := newTestServer(t)
	client := server.Client()

	bearer := registerTestUser(t, client, server.URL, "alex@example.com")
	status, envelope := doJSON(t, client, http.MethodPost, server.URL+"/v1/courses", bearer,
		`{"name":"Sunset Pines","location":"Portland"}`)
	if status != http.StatusCreated {
		t.Fatalf("create course: expected status 201, got %d (%v)", status, envelope)
	}

	status, envelope = doJSON(t, client, http.MethodGet, server.URL+"/v1/courses/search?q=sunset", "", "")
	if status != http.StatusOK {
		t.Fatalf("search: expected status 200, got %d (%v)", status, envelope)
	}
	items := envelope["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 search hit, got %d", len(items))
	}
}
