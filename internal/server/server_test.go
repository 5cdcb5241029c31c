package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/RyanBlaney/dance-advisor/internal/tempo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeExtractor mimics the tempo extractor's contract without ffmpeg
type fakeExtractor struct {
	bpm float64
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, name string, data []byte) (*tempo.Result, error) {
	if len(data) == 0 {
		return nil, tempo.NewDecodingError(tempo.CodeEmpty, name, "no audio data", tempo.ErrEmptyAudio)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &tempo.Result{Name: name, BPM: f.bpm, Method: tempo.MethodAutocorrelation}, nil
}

type ServerTestSuite struct {
	suite.Suite
	extractor *fakeExtractor
	handler   http.Handler
}

func (suite *ServerTestSuite) SetupTest() {
	resolver, err := style.NewResolver(nil, configs.GetDefaultSearchConfig(), nil)
	suite.Require().NoError(err)

	suite.extractor = &fakeExtractor{bpm: 128.456}
	srv, err := New(suite.extractor, resolver, configs.GetDefaultServerConfig(), 1024, nil)
	suite.Require().NoError(err)
	suite.handler = srv.Handler()
}

func (suite *ServerTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	suite.handler.ServeHTTP(rec, req)
	return rec
}

func (suite *ServerTestSuite) upload(field, filename string, data []byte, genre string) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		suite.Require().NoError(err)
		_, err = fw.Write(data)
		suite.Require().NoError(err)
	}
	if genre != "" {
		suite.Require().NoError(mw.WriteField("genre", genre))
	}
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (suite *ServerTestSuite) TestHealth() {
	rec := suite.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"status":"ok"}`, rec.Body.String())

	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	suite.NoError(err)
}

func (suite *ServerTestSuite) TestRequestIDPropagated() {
	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)

	rec := suite.do(req)
	suite.Equal(id, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	rec = suite.do(req)
	suite.NotEqual("not-a-uuid", rec.Header().Get("X-Request-ID"))
}

func (suite *ServerTestSuite) TestGenres() {
	rec := suite.do(httptest.NewRequest(http.MethodGet, "/v1/genres", nil))
	suite.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Genres  []string `json:"genres"`
		Default string   `json:"default"`
	}
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal(style.Labels(), body.Genres)
	suite.Equal(string(style.AutoDetect), body.Default)
}

func (suite *ServerTestSuite) TestSuggest() {
	req := httptest.NewRequest(http.MethodPost, "/v1/suggest", strings.NewReader(`{"bpm":119.9,"genre":"Latin/Ballroom"}`))
	rec := suite.do(req)
	suite.Require().Equal(http.StatusOK, rec.Code)

	var got style.Suggestion
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	suite.Equal(style.KeyLatinBallroomSlow, got.Key)
	suite.Len(got.SearchLinks, 3)
}

func (suite *ServerTestSuite) TestSuggestRejectsInvalidBodies() {
	bodies := []string{
		`{"genre":"Tap"}`,
		`{"bpm":-5}`,
		`{"bpm":"fast"}`,
		`{"bpm":100,"extra":true}`,
		`[1,2,3]`,
		`not json`,
	}

	for _, body := range bodies {
		rec := suite.do(httptest.NewRequest(http.MethodPost, "/v1/suggest", strings.NewReader(body)))
		suite.Equal(http.StatusBadRequest, rec.Code, body)

		var resp ErrorResponse
		suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		suite.NotEmpty(resp.Error)
		suite.NotEmpty(resp.RequestID)
	}
}

func (suite *ServerTestSuite) TestAnalyze() {
	rec := suite.do(suite.upload("audio", "song.mp3", []byte("ID3..."), "hip hop"))
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp AnalyzeResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal("128.46", resp.BPMDisplay)
	suite.Equal(style.KeyHipHopRnB, resp.Suggestion.Key)
	suite.Equal("song.mp3", resp.Analysis.Name)
	suite.Equal(rec.Header().Get("X-Request-ID"), resp.RequestID)
}

func (suite *ServerTestSuite) TestAnalyzeEmptyFile() {
	rec := suite.do(suite.upload("audio", "empty.mp3", nil, ""))
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(tempo.CodeEmpty, resp.Code)
}

func (suite *ServerTestSuite) TestAnalyzeMissingField() {
	rec := suite.do(suite.upload("", "", nil, "Tap"))
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestAnalyzeTooLarge() {
	rec := suite.do(suite.upload("audio", "big.mp3", bytes.Repeat([]byte{1}, 2<<20), ""))
	suite.Equal(http.StatusRequestEntityTooLarge, rec.Code)
}

func (suite *ServerTestSuite) TestAnalyzeRejectedBySizeLimitInExtractor() {
	// Passes the multipart allowance but not the extractor's own limit
	suite.extractor.err = tempo.NewDecodingError(tempo.CodeTooLarge, "big.mp3", "audio exceeds limit", tempo.ErrAudioTooLarge)

	rec := suite.do(suite.upload("audio", "big.mp3", []byte("data"), ""))
	suite.Equal(http.StatusRequestEntityTooLarge, rec.Code)

	var resp ErrorResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(tempo.CodeTooLarge, resp.Code)
}

func (suite *ServerTestSuite) TestSuggestNormalizesGenre() {
	req := httptest.NewRequest(http.MethodPost, "/v1/suggest", strings.NewReader(`{"bpm":130,"genre":"latin"}`))
	rec := suite.do(req)
	suite.Require().Equal(http.StatusOK, rec.Code)

	var got style.Suggestion
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	suite.Equal(style.KeyLatinBallroomFast, got.Key)
	suite.False(got.Fallback)
}

func (suite *ServerTestSuite) TestAnalyzeInternalError() {
	suite.extractor.err = errors.New("disk full")

	rec := suite.do(suite.upload("audio", "song.mp3", []byte("data"), ""))
	suite.Equal(http.StatusInternalServerError, rec.Code)
}

func (suite *ServerTestSuite) TestMetricsEndpoint() {
	suite.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := suite.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "dance_advisor_http_requests_total")
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(nil, nil, configs.GetDefaultServerConfig(), 0, nil)
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	resolver, err := style.NewResolver(nil, configs.GetDefaultSearchConfig(), nil)
	require.NoError(t, err)

	srv, err := New(&fakeExtractor{bpm: 90}, resolver, configs.GetDefaultServerConfig(), 0, nil)
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
