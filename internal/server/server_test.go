package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/calendar"
	"github.com/xaenox/mailmind/internal/classify"
	"github.com/xaenox/mailmind/internal/features"
	"github.com/xaenox/mailmind/internal/storage"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	feats *features.EmailFeatures
	err   error
}

func (f *fakeExtractor) Extract(ctx context.Context, emailText string) (*features.EmailFeatures, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *f.feats
	out.EmailText = emailText
	return &out, nil
}

type fakeRouter struct {
	results []action.Result
}

func (f *fakeRouter) Route(ctx context.Context, feats *features.EmailFeatures, emailText string) ([]action.Result, error) {
	return f.results, nil
}

type fakePipeline struct {
	result *calendar.PipelineResult
}

func (f *fakePipeline) Process(ctx context.Context, feats *features.EmailFeatures, deadline action.Deadline) *calendar.PipelineResult {
	return f.result
}

type fakeRecommender struct {
	result *action.Result
	called bool
}

func (f *fakeRecommender) Recommend(ctx context.Context, emailText string, deadline action.Deadline) *action.Result {
	f.called = true
	return f.result
}

type fakeAttractions struct {
	result *action.Result
	called bool
}

func (f *fakeAttractions) DiscoverMultiStep(ctx context.Context, feats *features.EmailFeatures, emailText string, deadline action.Deadline) *action.Result {
	f.called = true
	return f.result
}

type serverFixture struct {
	srv         *Server
	featureLog  *storage.MemoryFeatureLog
	music       *fakeRecommender
	attractions *fakeAttractions
}

func newFixture(extractor Extractor, rtr Router) *serverFixture {
	featureLog := storage.NewMemoryFeatureLog()
	music := &fakeRecommender{result: action.Failure("no recommendations")}
	attractions := &fakeAttractions{result: action.Failure("no attractions")}
	pipeline := &fakePipeline{result: &calendar.PipelineResult{Processed: true, Skipped: true}}

	srv := New(extractor, rtr, classify.NewKeywordClassifier(0.3), nil,
		pipeline, music, attractions, featureLog,
		Budgets{Calendar: time.Minute, Music: time.Minute, Attraction: time.Minute},
		zap.NewNop())
	return &serverFixture{srv: srv, featureLog: featureLog, music: music, attractions: attractions}
}

func post(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})
	rec := get(t, fx.srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractAppendsFeatureLog(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{Category: "updates"}}, &fakeRouter{})

	rec := post(t, fx.srv, "/extract", EmailRequest{Subject: "Hi", Body: "See you Friday"})
	require.Equal(t, http.StatusOK, rec.Code)

	records, err := fx.featureLog.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestExtractRequiresBody(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})

	rec := post(t, fx.srv, "/extract", map[string]string{"subject": "no body"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFunctionCallOverridesCategory(t *testing.T) {
	extractor := &fakeExtractor{feats: &features.EmailFeatures{Category: "updates"}}
	fx := newFixture(extractor, &fakeRouter{results: []action.Result{
		{Message: "done", Success: true, FunctionName: "create_event"},
	}})

	rec := post(t, fx.srv, "/function_call", EmailRequest{
		Body:     "Concert Friday at 8pm",
		Category: "concert_promotion",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	feats := data["features"].(map[string]any)
	assert.Equal(t, "concert_promotion", feats["category"])
	results := data["function_result"].([]any)
	require.Len(t, results, 1)
}

func TestCreateSkipsMusicAndTravelWithoutKeywords(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})

	rec := post(t, fx.srv, "/create", EmailRequest{Body: "Dentist on Friday at 2pm"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.False(t, fx.music.called)
	assert.False(t, fx.attractions.called)
}

func TestCreateRunsMusicOnKeyword(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})

	rec := post(t, fx.srv, "/create", EmailRequest{Body: "New album from your favorite band!"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, fx.music.called)
	assert.False(t, fx.attractions.called)
}

func TestCreateRunsAttractionsOnKeyword(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})

	rec := post(t, fx.srv, "/create", EmailRequest{Body: "Your travel booking to Kyoto is confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, fx.attractions.called)
}

func TestListEmailsPagination(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, fx.featureLog.Append(ctx, json.RawMessage(`{"n": `+string(rune('0'+i))+`}`)))
	}

	rec := get(t, fx.srv, "/data/emails?offset=1&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(5), data["total"])
	assert.Equal(t, float64(1), data["offset"])
	items := data["items"].([]any)
	assert.Len(t, items, 2)
}

func TestListEmailsRejectsInvalidPagination(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})

	for _, query := range []string{
		"offset=-1",
		"limit=0",
		"limit=201",
		"offset=abc",
		"limit=abc",
	} {
		rec := get(t, fx.srv, "/data/emails?"+query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestGetEmailOutOfRange(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})

	rec := get(t, fx.srv, "/data/emails/7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPredictClassifiesAndExplains(t *testing.T) {
	fx := newFixture(&fakeExtractor{feats: &features.EmailFeatures{}}, &fakeRouter{})

	rec := post(t, fx.srv, "/predict", EmailRequest{Body: "Your verification code is 99171"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "verify_code", data["prediction"])
}
