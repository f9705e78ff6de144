package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sotadiploma/internal/summit"
	"sotadiploma/internal/summit/listsync"
	"sotadiploma/internal/summit/store"
	"sotadiploma/pkg/testutil"
)

const listCSV = `SOTA Summits List (Date=26/02/2024)
SummitCode,AssociationName,RegionName,SummitName,AltM,AltFt,GridRef1,GridRef2,Longitude,Latitude,Points,BonusPoints,ValidFrom,ValidTo,ActivationCount,ActivationDate,ActivationCall
OE/OO-073,Austria,Oberösterreich,Schoberstein,1285,4216,14.3253,47.9056,14.32530,47.90560,6,0,01/04/2004,31/12/2099,40,02/03/2024,OE5JFE/P
OE/TI-001,Austria,Tirol,Wildspitze,3768,12362,10.8672,46.8853,10.86720,46.88530,10,3,01/04/2004,31/12/2099,20,02/03/2024,OE7XYZ/P
`

type HandlerSuite struct {
	suite.Suite
	router http.Handler
	store  *store.InMemoryStore
	list   *httptest.Server
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.list = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listCSV))
	}))
	s.T().Cleanup(s.list.Close)

	syncer, err := listsync.New(s.store, s.list.URL)
	require.NoError(s.T(), err)

	h := New(s.store, syncer, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	r := chi.NewRouter()
	h.Register(r)
	r.Route("/api/admin", h.RegisterAdmin)
	s.router = r
}

func (s *HandlerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewRequest(s.T(), method, target, body))
}

func (s *HandlerSuite) TestSynchronizeThenRead() {
	rec := s.do(http.MethodPost, "/api/admin/summits/synchronize", "")
	require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())
	var result listsync.Result
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(s.T(), 2, result.SummitCount)

	rec = s.do(http.MethodGet, "/api/summits", "")
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var list []SummitResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&list))
	require.Len(s.T(), list, 2)
	assert.Equal(s.T(), "OE/OO-073", list[0].Code)
	assert.Equal(s.T(), "OE5", list[0].Region)

	rec = s.do(http.MethodGet, "/api/summits/oe/ti-001", "")
	require.Equal(s.T(), http.StatusOK, rec.Code)
	assert.JSONEq(s.T(), `{
		"summitCode": "OE/TI-001",
		"summitName": "Wildspitze",
		"region": "OE7",
		"validFrom": "2004-04-01",
		"validTo": "2099-12-31"
	}`, rec.Body.String())
}

func (s *HandlerSuite) TestGetUnknown() {
	rec := s.do(http.MethodGet, "/api/summits/OE/OO-999", "")
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestUpdate() {
	require.NoError(s.T(), s.store.UpsertAll(context.Background(), []summit.ListEntry{{
		Code:      "OE/OO-073",
		Name:      "Schoberstein",
		ValidFrom: time.Date(2004, 4, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC),
	}}))

	s.Run("closes the validity window", func() {
		rec := s.do(http.MethodPut, "/api/admin/summits/OE/OO-073",
			`{"summitName":"Schoberstein","validFrom":"2004-04-01","validTo":"2024-06-30"}`)
		require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

		got, err := s.store.Get(context.Background(), "OE/OO-073")
		require.NoError(s.T(), err)
		assert.Equal(s.T(), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), got.ValidTo)
	})

	s.Run("rejects inverted window", func() {
		rec := s.do(http.MethodPut, "/api/admin/summits/OE/OO-073",
			`{"summitName":"Schoberstein","validFrom":"2024-04-01","validTo":"2004-06-30"}`)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects bad date", func() {
		rec := s.do(http.MethodPut, "/api/admin/summits/OE/OO-073",
			`{"summitName":"Schoberstein","validFrom":"01/04/2004","validTo":"2024-06-30"}`)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown summit", func() {
		rec := s.do(http.MethodPut, "/api/admin/summits/OE/OO-999",
			`{"summitName":"Nowhere","validFrom":"2004-04-01","validTo":"2024-06-30"}`)
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestSynchronizeUpstreamDown() {
	s.list.Close()
	rec := s.do(http.MethodPost, "/api/admin/summits/synchronize", "")
	assert.Equal(s.T(), http.StatusServiceUnavailable, rec.Code)
}
