package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/spark-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/spark-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/spark-backend/internal/repository/memory"
	"github.com/gdugdh24/spark-backend/internal/usecase/auth"
	"github.com/gdugdh24/spark-backend/internal/usecase/discover"
	"github.com/gdugdh24/spark-backend/internal/usecase/onboarding"
	"github.com/gdugdh24/spark-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const providerSecret = "provider-secret-0123456789abcdef"

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := handler.RegisterValidators(); err != nil {
		t.Fatal(err)
	}

	profiles := memory.NewProfileRepository()
	onboardingUC := onboarding.NewOnboardingUseCase(memory.NewDraftRepository(), profiles)
	authUC := auth.NewAuthUseCase(
		memory.NewUserRepository(),
		memory.NewSessionRepository(),
		memory.NewSessionStateRepository(),
		auth.NewSharedSecretVerifier(providerSecret, ""),
		onboardingUC,
		"test-secret",
		time.Hour,
	)
	profileUC := profile.NewProfileUseCase(profiles)
	discoverUC := discover.NewDiscoverUseCase(
		memory.NewSwipeRepository(),
		memory.NewMatchRepository(),
		profiles,
		discover.MatcherFunc(func(string, string) bool { return true }),
		nil,
	)

	router := NewRouter(
		handler.NewAuthHandler(authUC),
		handler.NewOnboardingHandler(onboardingUC),
		handler.NewProfileHandler(profileUC),
		handler.NewDiscoverHandler(discoverUC),
		handler.NewNavigationHandler(authUC, profileUC),
		middleware.NewAuthMiddleware(authUC),
	)
	engine := gin.New()
	router.register(engine)
	return engine
}

type client struct {
	t      *testing.T
	engine *gin.Engine
	device string
	token  string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handler.DeviceHeader, c.device)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	return w
}

func (c *client) expect(method, path string, body any, status int) map[string]any {
	c.t.Helper()
	w := c.do(method, path, body)
	if w.Code != status {
		c.t.Fatalf("%s %s: status = %d, want %d, body %s", method, path, w.Code, status, w.Body.String())
	}
	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			c.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return out
}

func (c *client) route() string {
	c.t.Helper()
	resp := c.expect(http.MethodGet, "/api/v1/navigation", nil, http.StatusOK)
	route, _ := resp["route"].(string)
	return route
}

func (c *client) register(email string) {
	c.t.Helper()
	resp := c.expect(http.MethodPost, "/api/v1/auth/register",
		map[string]string{"email": email, "password": "secret1"}, http.StatusCreated)
	token, _ := resp["token"].(string)
	if token == "" {
		c.t.Fatalf("register returned no token: %v", resp)
	}
	c.token = token
}

func (c *client) onboard(name, ageText, gender, wants string) {
	c.t.Helper()
	c.expect(http.MethodPatch, "/api/v1/onboarding", map[string]any{
		"name": name, "age_text": ageText, "gender": gender, "looking_for": "relationship",
	}, http.StatusOK)
	c.expect(http.MethodPost, "/api/v1/onboarding/photos", map[string]string{"uri": "file:///" + name + ".jpg"}, http.StatusOK)
	c.expect(http.MethodPatch, "/api/v1/onboarding/preferences",
		map[string]any{"gender_preference": []string{wants}}, http.StatusOK)
	c.expect(http.MethodPut, "/api/v1/onboarding/hobbies",
		map[string]any{"hobbies": []string{"Travel", "Music", "Art"}}, http.StatusOK)
	c.expect(http.MethodPost, "/api/v1/onboarding/complete", nil, http.StatusCreated)
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(t)
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(method, "/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s /health = %d", method, w.Code)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := &client{t: t, engine: newTestEngine(t), device: "phone"}
	for _, path := range []string{"/api/v1/onboarding", "/api/v1/profile/me", "/api/v1/discover/feed", "/api/v1/auth/me"} {
		c.expect(http.MethodGet, path, nil, http.StatusUnauthorized)
	}
	c.token = "not-a-jwt"
	c.expect(http.MethodGet, "/api/v1/onboarding", nil, http.StatusUnauthorized)
}

func TestOnboardingFlow(t *testing.T) {
	c := &client{t: t, engine: newTestEngine(t), device: "phone"}

	if got := c.route(); got != "auth" {
		t.Fatalf("route before sign in = %q", got)
	}
	c.register("ana@example.com")
	if got := c.route(); got != "onboarding" {
		t.Fatalf("route after sign in = %q", got)
	}

	state := c.expect(http.MethodPatch, "/api/v1/onboarding",
		map[string]any{"name": "Ana", "age_text": "2a5", "gender": "female"}, http.StatusOK)
	draft := state["draft"].(map[string]any)
	if draft["age"].(float64) != 25 {
		t.Errorf("age = %v, want 25", draft["age"])
	}
	if validity := state["step_validity"].([]any); validity[0] != true || validity[1] != false {
		t.Errorf("step validity = %v", validity)
	}

	c.expect(http.MethodPatch, "/api/v1/onboarding", map[string]any{"gender": "robot"}, http.StatusBadRequest)
	c.expect(http.MethodPatch, "/api/v1/onboarding", map[string]any{"age_text": "abc"}, http.StatusBadRequest)
	c.expect(http.MethodPost, "/api/v1/onboarding/hobbies/toggle", map[string]string{"hobby": "Knitting"}, http.StatusBadRequest)
	c.expect(http.MethodPut, "/api/v1/onboarding/step", map[string]int{"step": 9}, http.StatusBadRequest)
	c.expect(http.MethodPost, "/api/v1/onboarding/complete", nil, http.StatusUnprocessableEntity)

	valid := c.expect(http.MethodGet, "/api/v1/onboarding/steps/1/valid", nil, http.StatusOK)
	if valid["valid"] != true {
		t.Errorf("step 1 valid = %v", valid)
	}
	c.expect(http.MethodGet, "/api/v1/onboarding/steps/7/valid", nil, http.StatusBadRequest)

	c.expect(http.MethodPost, "/api/v1/onboarding/preferences/age",
		map[string]string{"bound": "min", "direction": "down"}, http.StatusUnprocessableEntity)

	c.onboard("Ana", "25", "female", "male")
	if got := c.route(); got != "main" {
		t.Fatalf("route after onboarding = %q", got)
	}
	me := c.expect(http.MethodGet, "/api/v1/profile/me", nil, http.StatusOK)
	if me["email"] != "ana@example.com" || me["onboarding_completed"] != true {
		t.Errorf("profile = %v", me)
	}
	c.expect(http.MethodPost, "/api/v1/onboarding/complete", nil, http.StatusConflict)

	token := c.token
	c.expect(http.MethodPost, "/api/v1/auth/logout", nil, http.StatusOK)
	c.token = ""
	if got := c.route(); got != "auth" {
		t.Errorf("route after logout = %q", got)
	}
	c.token = token
	c.expect(http.MethodGet, "/api/v1/profile/me", nil, http.StatusUnauthorized)
}

func TestAuthErrorsReachSessionState(t *testing.T) {
	c := &client{t: t, engine: newTestEngine(t), device: "tablet"}

	resp := c.expect(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "nobody@example.com", "password": "secret1"}, http.StatusUnauthorized)
	if resp["error"] != auth.MsgInvalidCredentials {
		t.Errorf("error = %v", resp["error"])
	}
	state := c.expect(http.MethodGet, "/api/v1/auth/state", nil, http.StatusOK)
	if state["error"] != auth.MsgInvalidCredentials || state["status"] != "unauthenticated" {
		t.Errorf("state = %v", state)
	}
	state = c.expect(http.MethodDelete, "/api/v1/auth/state/error", nil, http.StatusOK)
	if state["error"] != nil {
		t.Errorf("error not cleared: %v", state)
	}

	c.register("ana@example.com")
	c.token = ""
	resp = c.expect(http.MethodPost, "/api/v1/auth/register",
		map[string]string{"email": "ana@example.com", "password": "secret1"}, http.StatusConflict)
	if resp["error"] != auth.MsgEmailTaken {
		t.Errorf("error = %v", resp["error"])
	}
	c.expect(http.MethodPost, "/api/v1/auth/register",
		map[string]string{"email": "bob@example.com", "password": "123"}, http.StatusBadRequest)
}

func TestDiscoverFlow(t *testing.T) {
	engine := newTestEngine(t)
	ana := &client{t: t, engine: engine, device: "ana-phone"}
	bob := &client{t: t, engine: engine, device: "bob-phone"}

	ana.register("ana@example.com")
	ana.expect(http.MethodGet, "/api/v1/discover/feed", nil, http.StatusNotFound)
	ana.onboard("Ana", "25", "female", "male")
	bob.register("bob@example.com")
	bob.onboard("Bob", "30", "male", "female")

	feed := ana.expect(http.MethodGet, "/api/v1/discover/feed", nil, http.StatusOK)
	cards := feed["cards"].([]any)
	if len(cards) != 1 {
		t.Fatalf("cards = %v", cards)
	}
	bobID := cards[0].(map[string]any)["id"].(string)

	ana.expect(http.MethodPost, "/api/v1/discover/swipe",
		map[string]string{"target_user_id": bobID, "direction": "up"}, http.StatusBadRequest)

	resp := ana.expect(http.MethodPost, "/api/v1/discover/gesture", map[string]any{
		"target_user_id": bobID,
		"viewport_width": 400,
		"samples":        []map[string]float64{{"dx": 50}, {"dx": 160, "dy": 10}},
	}, http.StatusOK)
	swipe, ok := resp["swipe"].(map[string]any)
	if !ok || swipe["is_match"] != true {
		t.Fatalf("gesture response = %v", resp)
	}

	ana.expect(http.MethodPost, "/api/v1/discover/swipe",
		map[string]string{"target_user_id": bobID, "direction": "left"}, http.StatusConflict)
	ana.expect(http.MethodPost, "/api/v1/discover/rewind", nil, http.StatusConflict)
	bob.expect(http.MethodPost, "/api/v1/discover/rewind", nil, http.StatusConflict)

	matches := bob.expect(http.MethodGet, "/api/v1/discover/matches", nil, http.StatusOK)
	if got := matches["matches"].([]any); len(got) != 1 {
		t.Errorf("bob's matches = %v", got)
	}

	pub := ana.expect(http.MethodGet, "/api/v1/profile/"+bobID, nil, http.StatusOK)
	if pub["name"] != "Bob" {
		t.Errorf("public profile = %v", pub)
	}
	ana.expect(http.MethodGet, "/api/v1/profile/ghost", nil, http.StatusNotFound)
}

func TestSessionStateNeverCarriesToken(t *testing.T) {
	engine := newTestEngine(t)
	ana := &client{t: t, engine: engine, device: "shared-device"}
	ana.register("ana@example.com")

	// Anyone naming the device id gets the state, so it must not hold a token.
	stranger := &client{t: t, engine: engine, device: "shared-device"}
	for _, path := range []string{"/api/v1/auth/state", "/api/v1/navigation"} {
		w := stranger.do(http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, w.Code)
		}
		body := w.Body.String()
		if strings.Contains(body, ana.token) || strings.Contains(body, `"token"`) {
			t.Errorf("GET %s leaks the token: %s", path, body)
		}
		if !strings.Contains(body, `"authenticated":true`) {
			t.Errorf("GET %s lost the signed in flag: %s", path, body)
		}
	}
	w := stranger.do(http.MethodDelete, "/api/v1/auth/state/error", nil)
	if strings.Contains(w.Body.String(), ana.token) {
		t.Errorf("DELETE /auth/state/error leaks the token: %s", w.Body.String())
	}

	login := stranger.expect(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "ana@example.com", "password": "secret1"}, http.StatusOK)
	if state := login["state"].(map[string]any); state["token"] != nil {
		t.Errorf("login state carries a token: %v", state)
	}
}

func TestLogoutDiscardsDraft(t *testing.T) {
	c := &client{t: t, engine: newTestEngine(t), device: "phone"}
	c.register("ana@example.com")
	c.expect(http.MethodPatch, "/api/v1/onboarding", map[string]any{"name": "Ana", "age": 25}, http.StatusOK)
	c.expect(http.MethodPut, "/api/v1/onboarding/step", map[string]int{"step": 2}, http.StatusOK)

	c.expect(http.MethodPost, "/api/v1/auth/logout", nil, http.StatusOK)
	resp := c.expect(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "ana@example.com", "password": "secret1"}, http.StatusOK)
	c.token = resp["token"].(string)

	state := c.expect(http.MethodGet, "/api/v1/onboarding", nil, http.StatusOK)
	draft := state["draft"].(map[string]any)
	if draft["name"] != "" || draft["age"] != float64(18) || state["step"].(float64) != 1 {
		t.Errorf("draft survived logout: %v", state)
	}
}

func TestDraftAgeBounds(t *testing.T) {
	c := &client{t: t, engine: newTestEngine(t), device: "phone"}
	c.register("ana@example.com")

	for _, body := range []map[string]any{
		{"age": 5},
		{"age": 121},
		{"age_text": "999"},
		{"age_text": "17"},
	} {
		c.expect(http.MethodPatch, "/api/v1/onboarding", body, http.StatusBadRequest)
	}
	state := c.expect(http.MethodPatch, "/api/v1/onboarding", map[string]any{"age_text": "120"}, http.StatusOK)
	if age := state["draft"].(map[string]any)["age"]; age != float64(120) {
		t.Errorf("age = %v, want 120", age)
	}
}

func TestExternalSignIn(t *testing.T) {
	engine := newTestEngine(t)
	c := &client{t: t, engine: engine, device: "phone"}
	sign := func(sub, email string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": sub, "email": email, "exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(providerSecret))
		if err != nil {
			t.Fatal(err)
		}
		return signed
	}

	c.register("ana@example.com")
	anaID := c.expect(http.MethodGet, "/api/v1/auth/me", nil, http.StatusOK)["id"].(string)
	c.token = ""

	c.expect(http.MethodPost, "/api/v1/auth/external",
		map[string]string{"user_id": anaID, "email": "ana@example.com", "token": sign(anaID, "ana@example.com")},
		http.StatusUnauthorized)
	c.expect(http.MethodPost, "/api/v1/auth/external",
		map[string]string{"user_id": "idp-1", "email": "bob@example.com"}, http.StatusBadRequest)

	resp := c.expect(http.MethodPost, "/api/v1/auth/external",
		map[string]string{"user_id": "idp-1", "email": "bob@example.com", "token": sign("idp-1", "bob@example.com")},
		http.StatusOK)
	c.token = resp["token"].(string)
	if got := c.route(); got != "onboarding" {
		t.Errorf("route after external sign in = %q", got)
	}
}

func TestRewindRestoresCard(t *testing.T) {
	engine := newTestEngine(t)
	ana := &client{t: t, engine: engine, device: "ana-phone"}
	bob := &client{t: t, engine: engine, device: "bob-phone"}
	ana.register("ana@example.com")
	ana.onboard("Ana", "25", "female", "male")
	bob.register("bob@example.com")
	bob.onboard("Bob", "30", "male", "female")

	feed := ana.expect(http.MethodGet, "/api/v1/discover/feed", nil, http.StatusOK)
	bobID := feed["cards"].([]any)[0].(map[string]any)["id"].(string)
	ana.expect(http.MethodPost, "/api/v1/discover/swipe",
		map[string]string{"target_user_id": bobID, "direction": "left"}, http.StatusOK)
	if feed = ana.expect(http.MethodGet, "/api/v1/discover/feed", nil, http.StatusOK); feed["exhausted"] != true {
		t.Fatalf("feed after pass = %v", feed)
	}

	resp := ana.expect(http.MethodPost, "/api/v1/discover/rewind", nil, http.StatusOK)
	if card := resp["card"].(map[string]any); card["id"] != bobID {
		t.Errorf("rewound card = %v", card)
	}
	if feed = ana.expect(http.MethodGet, "/api/v1/discover/feed", nil, http.StatusOK); len(feed["cards"].([]any)) != 1 {
		t.Errorf("feed after rewind = %v", feed)
	}
	ana.expect(http.MethodPost, "/api/v1/discover/rewind", nil, http.StatusConflict)
}
