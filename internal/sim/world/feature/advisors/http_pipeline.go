package advisors

import (
	"net/http"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"govsim.ai/internal/sim/world/feature/advisors/httpadvisor"
	"govsim.ai/internal/sim/world/feature/advisors/schemas"
)

// HTTPConfig carries everything needed to stand up the reference
// HTTP-backed pipeline: one LLM endpoint shared by all six stages (each
// stage differs only in its system prompt and schema), a shared API key,
// and a shared per-call timeout.
type HTTPConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// compileSchema compiles a stage's schema from the embedded schemas.FS, so
// a deployed binary never needs its build-time source tree on disk.
func compileSchema(name string) *jsonschema.Schema {
	data, err := schemas.FS.ReadFile(name)
	if err != nil {
		panic("advisors: read embedded schema " + name + ": " + err.Error())
	}
	s, err := jsonschema.CompileString(name, string(data))
	if err != nil {
		panic("advisors: compile schema " + name + ": " + err.Error())
	}
	return s
}

// NewHTTPPipeline wires the reference Advisor[In,Out] implementations for
// all six stages against one LLM endpoint. It is the default collaborator
// set; deployments that want a different transport construct a Pipeline
// directly with their own Advisor[In,Out] values.
func NewHTTPPipeline(cfg HTTPConfig) *Pipeline {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &Pipeline{
		Timeout: cfg.Timeout,
		Analyst: &httpadvisor.Client[AnalystIn, AnalystOut]{
			HTTP: httpClient, Endpoint: cfg.Endpoint, APIKey: cfg.APIKey,
			SystemPrompt:   "You are the state analyst for a political simulation. Summarize trends, risks, and projections.",
			RequiredFields: AnalystRequiredFields,
			Schema:         compileSchema("analyst.schema.json"),
		},
		Judiciary: &httpadvisor.Client[JudiciaryIn, JudiciaryOut]{
			HTTP: httpClient, Endpoint: cfg.Endpoint, APIKey: cfg.APIKey,
			SystemPrompt:   "You are the judiciary. Interpret the proposed law's free text into a bounded modifier batch.",
			RequiredFields: JudiciaryRequiredFields,
			Schema:         compileSchema("judiciary.schema.json"),
		},
		Media: &httpadvisor.Client[MediaIn, MediaOut]{
			HTTP: httpClient, Endpoint: cfg.Endpoint, APIKey: cfg.APIKey,
			SystemPrompt:   "You are the press. Write headlines, articles, and rumors reacting to the current state.",
			RequiredFields: MediaRequiredFields,
			Schema:         compileSchema("media.schema.json"),
		},
		Reaction: &httpadvisor.Client[ReactionIn, ReactionOut]{
			HTTP: httpClient, Endpoint: cfg.Endpoint, APIKey: cfg.APIKey,
			SystemPrompt:   "You model public reaction: approval shifts, protest probability, and movement dynamics.",
			RequiredFields: ReactionRequiredFields,
			Schema:         compileSchema("reaction.schema.json"),
		},
		Crisis: &httpadvisor.Client[CrisisIn, CrisisOut]{
			HTTP: httpClient, Endpoint: cfg.Endpoint, APIKey: cfg.APIKey,
			SystemPrompt:     "You may inject a crisis event given recent history, or respond with the literal JSON null if nothing warrants one.",
			RequiredFields:   CrisisRequiredFields,
			Schema:           compileSchema("crisis.schema.json"),
			AllowNullLiteral: true,
		},
		Historian: &httpadvisor.Client[HistorianIn, HistorianOut]{
			HTTP: httpClient, Endpoint: cfg.Endpoint, APIKey: cfg.APIKey,
			SystemPrompt:   "You are the historian. Decide whether an era has ended and update player reputations.",
			RequiredFields: HistorianRequiredFields,
			Schema:         compileSchema("historian.schema.json"),
		},
	}
}
