package listsync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sotadiploma/internal/summit"
	"sotadiploma/internal/summit/store"
)

const summitListCSV = `SOTA Summits List (Date=26/02/2024)
SummitCode,AssociationName,RegionName,SummitName,AltM,AltFt,GridRef1,GridRef2,Longitude,Latitude,Points,BonusPoints,ValidFrom,ValidTo,ActivationCount,ActivationDate,ActivationCall
OE/KT-176,Austria,Kärnten,Eckberg,1176,3858,13.4667,46.8333,13.46670,46.83330,4,0,01/04/2004,30/11/2016,5,29/07/2013,OE/OK1IPS/P
I/VE-283,Italy,Veneto,"Monte Lozzo",323,1060,11.6215,45.2954,11.62150,45.29540,1,0,01/10/2017,31/12/2099,6,18/11/2023,I1WKN/p
OE/OO-073,Austria,Oberösterreich,Schoberstein,1285,4216,14.3253,47.9056,14.32530,47.90560,6,0,01/04/2004,31/12/2099,40,02/03/2024,OE5JFE/P
OE/OO-999,Austria,Oberösterreich,Broken,1,1,0,0,0,0,1,0,yesterday,31/12/2099,0,,
`

type ListSyncSuite struct {
	suite.Suite
	store *store.InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestListSyncSuite(t *testing.T) {
	suite.Run(t, new(ListSyncSuite))
}

func (s *ListSyncSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2024, 2, 27, 3, 0, 0, 0, time.UTC)
}

func (s *ListSyncSuite) newSynchronizer(url string) *Synchronizer {
	syncer, err := New(s.store, url, WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)
	return syncer
}

func (s *ListSyncSuite) TestParseCSV() {
	entries, skipped, err := ParseCSV(strings.NewReader(summitListCSV))
	s.Require().NoError(err)
	s.Equal(1, skipped)
	s.Require().Len(entries, 2)
	s.Equal(summit.ListEntry{
		Code:      "OE/KT-176",
		Name:      "Eckberg",
		ValidFrom: time.Date(2004, 4, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2016, 11, 30, 0, 0, 0, 0, time.UTC),
	}, entries[0])
	s.Equal("OE/OO-073", entries[1].Code)
}

func (s *ListSyncSuite) TestParseCSVErrors() {
	s.Run("empty input", func() {
		_, _, err := ParseCSV(strings.NewReader(""))
		s.Error(err)
	})

	s.Run("missing column", func() {
		_, _, err := ParseCSV(strings.NewReader("title\nSummitCode,SummitName,ValidFrom\n"))
		s.ErrorContains(err, "ValidTo")
	})
}

func (s *ListSyncSuite) TestNewValidation() {
	_, err := New(nil, "http://example.invalid")
	s.ErrorContains(err, "summit store is required")
	_, err = New(s.store, "")
	s.ErrorContains(err, "summit list url is required")
}

func (s *ListSyncSuite) TestSynchronize() {
	var modifiedSince atomic.Value
	modifiedSince.Store("")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		since := r.Header.Get("If-Modified-Since")
		modifiedSince.Store(since)
		if since != "" {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		_, _ = w.Write([]byte(summitListCSV))
	}))
	defer server.Close()
	syncer := s.newSynchronizer(server.URL)

	s.Run("first run fetches everything", func() {
		res, err := syncer.Synchronize(s.ctx)
		s.Require().NoError(err)
		s.False(res.NotModified)
		s.Equal(2, res.SummitCount)
		s.Equal("", modifiedSince.Load())

		list, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(list, 2)
	})

	s.Run("second run sends the last run time", func() {
		s.now = s.now.Add(24 * time.Hour)
		res, err := syncer.Synchronize(s.ctx)
		s.Require().NoError(err)
		s.True(res.NotModified)
		s.Equal("Tue, 27 Feb 2024 03:00:00 GMT", modifiedSince.Load())

		last, err := s.store.LastUpdate(s.ctx)
		s.Require().NoError(err)
		s.Equal(2, last.SummitCount, "not-modified runs do not move the last update")
	})
}

func (s *ListSyncSuite) TestSynchronizeUpstreamFailure() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := s.newSynchronizer(server.URL).Synchronize(s.ctx)
	s.ErrorContains(err, "unexpected status 503")

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ListSyncSuite) TestSynchronizeInitialMarksCompletion() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(summitListCSV))
	}))
	defer server.Close()
	syncer := s.newSynchronizer(server.URL)

	s.False(syncer.InitialSynchronizationCompleted())
	s.Require().NoError(syncer.SynchronizeInitial(s.ctx))
	s.True(syncer.InitialSynchronizationCompleted())
}
