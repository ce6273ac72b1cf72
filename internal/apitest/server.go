// Package apitest runs an in-memory stand-in for the church REST backend.
// It stores resources as loose JSON objects, counts every request and keeps
// the parts of multipart uploads so tests can assert on the wire traffic.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"churchportal/internal/apiclient"

	"github.com/google/uuid"
)

type object = map[string]any

// Recorded is one request seen by the server
type Recorded struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	// Parts holds multipart bodies by form name
	Parts     map[string][]byte
	PartTypes map[string]string
}

// Server is a fake backend mounted under /api
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	collections map[string]map[string]object
	order       map[string][]string
	requests    []Recorded
	gate        chan struct{}
	failures    []failure
}

type failure struct {
	status int
	body   string
}

// New starts a server that is closed when the test ends
func New(t testing.TB) *Server {
	s := &Server{
		collections: make(map[string]map[string]object),
		order:       make(map[string][]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Client returns an API client pointed at the server
func (s *Server) Client(opts ...apiclient.Option) *apiclient.Client {
	return apiclient.New(s.URL+"/api", opts...)
}

// Seed stores objects under a collection such as "members" or "choir/c1/songs".
// Objects without an id get one assigned; the stored ids are returned.
func (s *Server) Seed(collection string, items ...any) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			panic(fmt.Sprintf("apitest: seed %s: %v", collection, err))
		}
		obj := object{}
		if err := json.Unmarshal(data, &obj); err != nil {
			panic(fmt.Sprintf("apitest: seed %s: %v", collection, err))
		}
		ids = append(ids, s.insert(collection, obj))
	}
	return ids
}

// Count returns how many requests matched method and path (query ignored)
func (s *Server) Count(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Requests returns a copy of every recorded request
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Hold makes GET requests block after being recorded until release is called
func (s *Server) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gate == gate {
				s.gate = nil
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// FailNext makes the next request answer with status and raw body
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, body: body})
}

// Object returns a stored object, for assertions
func (s *Server) Object(collection, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.collections[collection][id]
	return obj, ok
}

func (s *Server) insert(collection string, obj object) string {
	id, _ := obj["id"].(string)
	if id == "" {
		id = uuid.NewString()
		obj["id"] = id
	}
	if _, ok := obj["createdAt"]; !ok {
		obj["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	}
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]object)
	}
	if _, exists := s.collections[collection][id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	s.collections[collection][id] = obj
	return id
}

func (s *Server) list(collection string) []object {
	out := make([]object, 0, len(s.order[collection]))
	for _, id := range s.order[collection] {
		if obj, ok := s.collections[collection][id]; ok {
			out = append(out, obj)
		}
	}
	return out
}

func (s *Server) remove(collection, id string) bool {
	if _, ok := s.collections[collection][id]; !ok {
		return false
	}
	delete(s.collections[collection], id)
	ids := s.order[collection]
	for i, existing := range ids {
		if existing == id {
			s.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return true
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	rec := Recorded{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
	}

	var body object
	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		var err error
		body, err = readBody(r, &rec)
		if err != nil {
			s.record(rec)
			writeJSON(w, http.StatusBadRequest, object{"message": err.Error()})
			return
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	gate := s.gate
	var fail *failure
	if len(s.failures) > 0 {
		fail = &s.failures[0]
		s.failures = s.failures[1:]
	}
	s.mu.Unlock()

	if gate != nil && r.Method == http.MethodGet {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if fail != nil {
		w.WriteHeader(fail.status)
		_, _ = io.WriteString(w, fail.body)
		return
	}

	segments := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/"), "/")

	s.mu.Lock()
	status, payload := s.route(r, segments, body)
	s.mu.Unlock()

	writeJSON(w, status, payload)
}

func (s *Server) record(rec Recorded) {
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
}

func readBody(r *http.Request, rec *Recorded) (object, error) {
	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil || len(strings.TrimSpace(string(data))) == 0 {
			return object{}, nil
		}
		obj := object{}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("malformed JSON body: %w", err)
		}
		return obj, nil
	}

	rec.Parts = make(map[string][]byte)
	rec.PartTypes = make(map[string]string)
	mr := multipart.NewReader(r.Body, params["boundary"])
	obj := object{}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed multipart body: %w", err)
		}
		content, err := io.ReadAll(part)
		if err != nil {
			return nil, err
		}
		name := part.FormName()
		rec.Parts[name] = content
		rec.PartTypes[name] = part.Header.Get("Content-Type")

		switch name {
		case "data":
			if err := json.Unmarshal(content, &obj); err != nil {
				return nil, fmt.Errorf("malformed data part: %w", err)
			}
		case "audio":
			obj["audioUrl"] = "/uploads/" + part.FileName()
		case "media":
			obj["mediaUrl"] = "/uploads/" + part.FileName()
		}
	}
	return obj, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func notFound(what string) (int, any) {
	return http.StatusNotFound, object{"message": what + " not found"}
}

// sortedKeys keeps stats output deterministic
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
