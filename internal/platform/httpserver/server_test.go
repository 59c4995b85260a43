package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	rankinglifecycle "nominator/contexts/beatmap-moderation/ranking-lifecycle"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
	rankinghttp "nominator/contexts/beatmap-moderation/ranking-lifecycle/transport/http"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	module := rankinglifecycle.NewInMemoryModule(nil)
	module.Store.SetBeatmapSet(entities.BeatmapSet{
		SetID:   1,
		Artist:  "Camellia",
		Title:   "GHOST",
		Creator: "qqqant",
		Status:  entities.StatusPending,
		Maps: []entities.Beatmap{
			{MapID: 10, SetID: 1, MD5: "aaa", Version: "insane"},
		},
	})
	module.Store.SetActor(entities.Actor{
		UserID: 100,
		Name:   "cmyui",
		Authorities: entities.AuthorityNominate | entities.AuthorityLove |
			entities.AuthorityRank | entities.AuthorityCancel,
	})
	module.Store.SetActor(entities.Actor{
		UserID:      101,
		Name:        "flame",
		Authorities: entities.AuthorityNominate,
	})
	return New(module, nil, ":0")
}

func doRequest(t *testing.T, server *Server, method, target, userID string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, target, nil)
	if userID != "" {
		request.Header.Set("X-User-Id", userID)
	}
	recorder := httptest.NewRecorder()
	server.Mux().ServeHTTP(recorder, request)
	return recorder
}

func TestVoteEndpointFullCycle(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/votes", "100")
	if recorder.Code != http.StatusOK {
		t.Fatalf("first vote status %d: %s", recorder.Code, recorder.Body.String())
	}
	var first rankinghttp.VoteResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode vote response: %v", err)
	}
	if !first.Accepted || first.Votes != 1 || first.Needed != 1 || first.Qualified {
		t.Fatalf("unexpected first vote response: %+v", first)
	}

	recorder = doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/votes", "101")
	if recorder.Code != http.StatusOK {
		t.Fatalf("second vote status %d: %s", recorder.Code, recorder.Body.String())
	}
	var second rankinghttp.VoteResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode vote response: %v", err)
	}
	if !second.Qualified || second.Status != entities.StatusQualified.String() {
		t.Fatalf("quorum vote must qualify: %+v", second)
	}
}

func TestVoteEndpointRequiresUserHeader(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/votes", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}

	recorder = doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/votes", "not-a-number")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestVoteEndpointUnknownUser(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/votes", "999")
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown user, got %d", recorder.Code)
	}
}

func TestLoveEndpointAuthorization(t *testing.T) {
	server := newTestServer(t)

	// Nominator without the love authority.
	recorder := doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/love", "101")
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/love", "100")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var resp rankinghttp.TransitionResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode transition response: %v", err)
	}
	if resp.Status != entities.StatusLoved.String() || !resp.Applied {
		t.Fatalf("unexpected transition response: %+v", resp)
	}
}

func TestCancelEndpointConflictFromPending(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/cancel", "100")
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var resp rankinghttp.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != "invalid_transition" {
		t.Fatalf("unexpected error code: %s", resp.Code)
	}
}

func TestRankEndpointUnknownSet(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodPost, "/v1/beatmapsets/999/rank", "100")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestBeatmapStatusEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(t, server, http.MethodGet, "/v1/beatmaps/aaa/status", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var resp rankinghttp.BeatmapStatusResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if resp.MD5 != "aaa" || resp.StatusCode != int(entities.StatusPending) || resp.Frozen {
		t.Fatalf("unexpected status response: %+v", resp)
	}

	recorder = doRequest(t, server, http.MethodGet, "/v1/beatmaps/zzz/status", "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown fingerprint, got %d", recorder.Code)
	}
}

func TestStatusReflectsTransitionImmediately(t *testing.T) {
	server := newTestServer(t)

	if rec := doRequest(t, server, http.MethodPost, "/v1/beatmapsets/1/love", "100"); rec.Code != http.StatusOK {
		t.Fatalf("love failed: %d %s", rec.Code, rec.Body.String())
	}

	recorder := doRequest(t, server, http.MethodGet, "/v1/beatmaps/aaa/status", "")
	var resp rankinghttp.BeatmapStatusResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if resp.StatusCode != int(entities.StatusLoved) || !resp.Frozen {
		t.Fatalf("status lookup lagging behind transition: %+v", resp)
	}
}
