package types

// Category classifies a generated test case.
type Category string

const (
	CategoryValid    Category = "valid"
	CategoryBoundary Category = "boundary"
	CategorySecurity Category = "security"
	CategoryInvalid  Category = "invalid"
)

// Overrides lets a caller (or probe inference) pin the status codes the
// generated battery should expect for the common failure classes.
type Overrides struct {
	AuthErrorStatus int `json:"authErrorStatus,omitempty" yaml:"auth_error_status,omitempty"`
	RateLimitStatus int `json:"rateLimitStatus,omitempty" yaml:"rate_limit_status,omitempty"`
	ConflictStatus  int `json:"conflictStatus,omitempty" yaml:"conflict_status,omitempty"`
	InvalidStatus   int `json:"invalidStatus,omitempty" yaml:"invalid_status,omitempty"`
}

// EndpointSpec describes a single endpoint to synthesize a battery for.
// It is treated as immutable once generation begins.
type EndpointSpec struct {
	Method            string            `json:"method"`
	Endpoint          string            `json:"endpoint"`
	Headers           map[string]string `json:"headers,omitempty"`
	Body              *Body             `json:"body,omitempty"`
	ExpectedStatus    StatusSet         `json:"expected_status,omitempty"`
	Overrides         Overrides         `json:"overrides,omitempty"`
	AutoProbe         bool              `json:"autoProbe,omitempty"`
	SampleValidToken  string            `json:"sampleValidToken,omitempty"`
	SampleValidAPIKey string            `json:"sampleValidApiKey,omitempty"`
	TargetURL         string            `json:"targetUrl,omitempty"`
}

// Request is the concrete HTTP request a test case issues.
type Request struct {
	Method   string            `json:"method"`
	Endpoint string            `json:"endpoint"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     *Body             `json:"body,omitempty"`
}

// Expected describes the acceptable outcome for a test case. Schema, when
// present, is a JSON Schema document the response body must validate against.
type Expected struct {
	Status StatusSet      `json:"status"`
	Schema map[string]any `json:"schema,omitempty"`
}

// TestCase is one structured request plus its expected outcome.
type TestCase struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Request     Request  `json:"request"`
	Expected    Expected `json:"expected_response"`
}

// ProbeOutcome records the raw result of one calibration request. A failed
// request carries Error and nothing else; any status code is data here.
type ProbeOutcome struct {
	Status  int               `json:"status,omitempty"`
	Body    string            `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Curl    string            `json:"curl,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// ProbeResults maps variant name (noAuth, invalidAuth, rateLimit, ...) to
// its outcome.
type ProbeResults map[string]ProbeOutcome

// InferredOverrides is what status inference extracted from probe outcomes.
type InferredOverrides struct {
	AuthErrorStatus int `json:"authErrorStatus,omitempty"`
	RateLimitStatus int `json:"rateLimitStatus,omitempty"`
	ConflictStatus  int `json:"conflictStatus,omitempty"`
	SuccessStatus   int `json:"successStatus,omitempty"`
}

// Empty reports whether inference found nothing.
func (o InferredOverrides) Empty() bool {
	return o == InferredOverrides{}
}

// DetectedAuth is the credential header style that yielded a 2xx during
// probing. Value is redacted before the result leaves the generator.
type DetectedAuth struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// RunStatus is the classification of one executed test case.
type RunStatus string

const (
	RunPassed RunStatus = "PASSED"
	RunFailed RunStatus = "FAILED"
	RunError  RunStatus = "ERROR"
)

// ActualResponse captures what the target actually returned.
type ActualResponse struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Data       *Body             `json:"data,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Diagnostics is the repro bundle attached to every run result.
type Diagnostics struct {
	ResolvedURL    string            `json:"resolvedUrl"`
	RequestHeaders map[string]string `json:"requestHeaders,omitempty"`
	RequestBody    string            `json:"requestBody,omitempty"`
	Curl           string            `json:"curl"`
}

// RunResult is the outcome of executing one test case. Results are
// independent; nothing is shared between them.
type RunResult struct {
	ID           string          `json:"id"`
	Category     Category        `json:"category"`
	Description  string          `json:"description"`
	Status       RunStatus       `json:"status"`
	DurationMS   int64           `json:"duration_ms"`
	Actual       *ActualResponse `json:"actual,omitempty"`
	Expected     Expected        `json:"expected"`
	Error        string          `json:"error,omitempty"`
	Hint         string          `json:"hint,omitempty"`
	SchemaErrors []string        `json:"schemaValidation,omitempty"`
	Diagnostics  Diagnostics     `json:"diagnostics"`
}

// RunSummary is a pure aggregate over run results, always recomputed.
type RunSummary struct {
	Total  int    `json:"total"`
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
	Errors int    `json:"errors"`
	Target string `json:"target,omitempty"`
}

// Suggestion proposes a widened expected-status set for a test case whose
// observed status was not among its expectations.
type Suggestion struct {
	ID                  string `json:"id"`
	CurrentExpected     []int  `json:"currentExpected"`
	Observed            int    `json:"observed"`
	RecommendedExpected []int  `json:"recommendedExpected"`
	Hint                string `json:"hint,omitempty"`
}
