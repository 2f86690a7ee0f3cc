package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/assay/internal/adapters/http/api"
	"github.com/okian/assay/internal/adapters/llm"
	"github.com/okian/assay/internal/adapters/storage"
	"github.com/okian/assay/internal/domain/model"
	"github.com/okian/assay/internal/domain/query"
	"github.com/okian/assay/internal/domain/report"
	"github.com/okian/assay/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps is a canned Dependencies implementation. Each field, when set,
// overrides the default happy-path response.
type fakeDeps struct {
	uploadRecords int
	uploadErr     error
	viewErr       error
	lastScope     query.Scope
	summary       string
	summaryErr    error
	sentiment     string
	sentimentErr  error
}

func (f *fakeDeps) UploadDataset(_ context.Context, _ string, _ []byte) (int, error) {
	return f.uploadRecords, f.uploadErr
}

func (f *fakeDeps) Entities(_ context.Context, _ string) ([]string, error) {
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return []string{"Team Alpha", "Team Beta"}, nil
}

func (f *fakeDeps) Groups(_ context.Context, _ string) ([]string, error) {
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return []string{"Platform"}, nil
}

func (f *fakeDeps) Records(_ context.Context, _ string, scope query.Scope) ([]model.Record, error) {
	f.lastScope = scope
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return []model.Record{{EntityName: scope.Name, Rating: 3.5}}, nil
}

func (f *fakeDeps) Progress(_ context.Context, _ string, scope query.Scope) ([]query.ProgressPoint, error) {
	f.lastScope = scope
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return []query.ProgressPoint{{AssessmentNumber: 1, MeanRating: 3.5}}, nil
}

func (f *fakeDeps) CapabilityScores(_ context.Context, _ string, scope query.Scope) ([]query.CapabilityScore, error) {
	f.lastScope = scope
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return []query.CapabilityScore{{CapabilityName: "Delivery", MeanRating: 3.5}}, nil
}

func (f *fakeDeps) CriteriaDistribution(_ context.Context, _ string, scope query.Scope) (map[string]int, error) {
	f.lastScope = scope
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return map[string]int{"Defined": 2}, nil
}

func (f *fakeDeps) Notes(_ context.Context, _ string, scope query.Scope) ([]string, error) {
	f.lastScope = scope
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return []string{"steady progress"}, nil
}

func (f *fakeDeps) AssessmentDates(_ context.Context, _ string, scope query.Scope) ([]string, error) {
	f.lastScope = scope
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return []string{"2024-03-01"}, nil
}

func (f *fakeDeps) TemplateNames(_ context.Context, _ string, scope query.Scope) ([]string, error) {
	f.lastScope = scope
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return []string{"Quarterly Review"}, nil
}

func (f *fakeDeps) ReportPrompt(_ context.Context, _ string, scope query.Scope) (string, error) {
	f.lastScope = scope
	if f.viewErr != nil {
		return "", f.viewErr
	}
	return "the prompt", nil
}

func (f *fakeDeps) Summarize(_ context.Context, _ string, scope query.Scope) (string, error) {
	f.lastScope = scope
	return f.summary, f.summaryErr
}

func (f *fakeDeps) AnalyzeSentiment(_ context.Context, _ string) (string, error) {
	return f.sentiment, f.sentimentErr
}

func newTestServer(deps *fakeDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, 1<<20).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestUploadEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &fakeDeps{uploadRecords: 3}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When uploading a dataset", func() {
			resp, err := http.Post(srv.URL+"/datasets/q1", "text/csv", strings.NewReader("header\nrow\n"))
			So(err, ShouldBeNil)

			Convey("Then it should answer 201 with the record count", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				var body struct {
					Dataset string `json:"dataset"`
					Records int    `json:"records"`
				}
				decodeBody(t, resp, &body)
				So(body.Dataset, ShouldEqual, "q1")
				So(body.Records, ShouldEqual, 3)
			})
		})

		Convey("When the dataset fails schema validation", func() {
			_, schemaErr := schema.Validate([]map[string]string{{"Entity Name": "x"}})
			deps.uploadErr = fmt.Errorf("load dataset: %w", schemaErr)
			resp, err := http.Post(srv.URL+"/datasets/q1", "text/csv", strings.NewReader("x"))
			So(err, ShouldBeNil)

			Convey("Then it should answer 422 with the schema error code", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "schema_error")
			})
		})

		Convey("When the upload exceeds the size limit", func() {
			mux := http.NewServeMux()
			api.NewServer(deps, 8).Register(context.Background(), mux)
			small := httptest.NewServer(mux)
			defer small.Close()

			resp, err := http.Post(small.URL+"/datasets/q1", "text/csv", strings.NewReader("well over eight bytes"))
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 413", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})

		Convey("When the path names no dataset", func() {
			resp, err := http.Post(srv.URL+"/datasets/", "text/csv", strings.NewReader("x"))
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestViewEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &fakeDeps{}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When listing entities", func() {
			resp, err := http.Get(srv.URL + "/datasets/q1/entities")
			So(err, ShouldBeNil)

			Convey("Then it should answer with the names", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var names []string
				decodeBody(t, resp, &names)
				So(names, ShouldResemble, []string{"Team Alpha", "Team Beta"})
			})
		})

		Convey("When listing groups", func() {
			resp, err := http.Get(srv.URL + "/datasets/q1/groups")
			So(err, ShouldBeNil)

			Convey("Then it should answer with the names", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var names []string
				decodeBody(t, resp, &names)
				So(names, ShouldResemble, []string{"Platform"})
			})
		})

		Convey("When querying a scoped view", func() {
			resp, err := http.Get(srv.URL + "/datasets/q1/progress?scope=entity&name=Team+Alpha")
			So(err, ShouldBeNil)

			Convey("Then the scope should reach the service", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(deps.lastScope, ShouldResemble, query.Scope{Kind: query.Entity, Name: "Team Alpha"})
				var points []query.ProgressPoint
				decodeBody(t, resp, &points)
				So(points, ShouldResemble, []query.ProgressPoint{{AssessmentNumber: 1, MeanRating: 3.5}})
			})
		})

		Convey("When querying each remaining scoped view", func() {
			for _, view := range []string{"records", "capability-scores", "criteria-distribution", "notes", "dates", "templates", "prompt"} {
				resp, err := http.Get(srv.URL + "/datasets/q1/" + view + "?scope=group&name=Platform")
				So(err, ShouldBeNil)
				_ = resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(deps.lastScope, ShouldResemble, query.Scope{Kind: query.Group, Name: "Platform"})
			}
		})

		Convey("When the scope parameter is missing", func() {
			resp, err := http.Get(srv.URL + "/datasets/q1/progress?name=Team+Alpha")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the name parameter is missing", func() {
			resp, err := http.Get(srv.URL + "/datasets/q1/progress?scope=entity")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the view does not exist", func() {
			resp, err := http.Get(srv.URL + "/datasets/q1/unknown-view?scope=entity&name=x")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the dataset is unknown to the store", func() {
			deps.viewErr = fmt.Errorf("load dataset: %w", storage.ErrNotFound)
			resp, err := http.Get(srv.URL + "/datasets/missing/entities")
			So(err, ShouldBeNil)

			Convey("Then it should answer 404 with the not-found code", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "not_found")
			})
		})

		Convey("When the prompt scope matches no records", func() {
			deps.viewErr = fmt.Errorf("%w: entity %q", report.ErrEmptyScope, "Team Omega")
			resp, err := http.Get(srv.URL + "/datasets/q1/prompt?scope=entity&name=Team+Omega")
			So(err, ShouldBeNil)

			Convey("Then it should answer 404 with the empty-scope code", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "empty_scope")
			})
		})

		Convey("When the request id header is absent", func() {
			resp, err := http.Get(srv.URL + "/datasets/q1/entities")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the response should carry a generated request id", func() {
				So(resp.Header.Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When the caller supplies a request id", func() {
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/datasets/q1/entities", nil)
			So(err, ShouldBeNil)
			req.Header.Set("X-Request-ID", "req-42")
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the same id should echo back", func() {
				So(resp.Header.Get("X-Request-ID"), ShouldEqual, "req-42")
			})
		})
	})
}

func TestSummaryEndpoint(t *testing.T) {
	Convey("Given an API server with a working generator", t, func() {
		deps := &fakeDeps{summary: "narrative analysis"}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When requesting a summary", func() {
			resp, err := http.Post(srv.URL+"/datasets/q1/summary?scope=entity&name=Team+Alpha", "application/json", nil)
			So(err, ShouldBeNil)

			Convey("Then it should answer with the narrative", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body struct {
					Text string `json:"text"`
				}
				decodeBody(t, resp, &body)
				So(body.Text, ShouldEqual, "narrative analysis")
			})
		})

		Convey("When the generator is rate limited", func() {
			deps.summaryErr = fmt.Errorf("%w: %w (status 429)", llm.ErrGeneration, llm.ErrRateLimited)
			resp, err := http.Post(srv.URL+"/datasets/q1/summary?scope=entity&name=Team+Alpha", "application/json", nil)
			So(err, ShouldBeNil)

			Convey("Then it should answer 502 with the category in the code", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadGateway)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "generation_rate_limit")
			})
		})

		Convey("When the scope parameters are invalid", func() {
			resp, err := http.Post(srv.URL+"/datasets/q1/summary?scope=planet&name=Mars", "application/json", nil)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestSentimentEndpoint(t *testing.T) {
	Convey("Given an API server with a working generator", t, func() {
		deps := &fakeDeps{sentiment: "Positive: improvement throughout."}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When posting text for analysis", func() {
			payload := bytes.NewReader([]byte(`{"text":"the team shipped early"}`))
			resp, err := http.Post(srv.URL+"/sentiment", "application/json", payload)
			So(err, ShouldBeNil)

			Convey("Then it should answer with the classification", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body struct {
					Text string `json:"text"`
				}
				decodeBody(t, resp, &body)
				So(body.Text, ShouldEqual, "Positive: improvement throughout.")
			})
		})

		Convey("When the body is not JSON", func() {
			resp, err := http.Post(srv.URL+"/sentiment", "application/json", strings.NewReader("not json"))
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the text is blank", func() {
			resp, err := http.Post(srv.URL+"/sentiment", "application/json", strings.NewReader(`{"text":"  "}`))
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the method is not POST", func() {
			resp, err := http.Get(srv.URL + "/sentiment")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the generator authentication fails", func() {
			deps.sentimentErr = fmt.Errorf("%w: %w (status 401)", llm.ErrGeneration, llm.ErrUnauthorized)
			payload := strings.NewReader(`{"text":"something"}`)
			resp, err := http.Post(srv.URL+"/sentiment", "application/json", payload)
			So(err, ShouldBeNil)

			Convey("Then it should answer 502 with the auth category", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadGateway)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "generation_auth")
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		srv := newTestServer(&fakeDeps{})
		defer srv.Close()

		Convey("When probing the health endpoint", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it should answer 200", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}
