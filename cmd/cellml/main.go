// Command cellml runs the analyze+generate pipeline over a named fixture
// model and prints diagnostics, classification counts, and (when the
// system is emittable) the generated source. Flag parsing and the
// dispatch-by-mode shape follow the teacher's cmd/main.go; structured
// logging uses log/slog in place of the teacher's bare log.Fatal calls,
// matching dd0wney-graphdb's slog-based request logging style.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/edp1096/cellml-codegen/analyze"
	"github.com/edp1096/cellml-codegen/cellml"
	"github.com/edp1096/cellml-codegen/classify"
	"github.com/edp1096/cellml-codegen/diag"
	"github.com/edp1096/cellml-codegen/equivalence"
	"github.com/edp1096/cellml-codegen/examples/fixtures"
	"github.com/edp1096/cellml-codegen/generate"
	"github.com/edp1096/cellml-codegen/pkg/cache"
	"github.com/edp1096/cellml-codegen/pkg/config"
	"github.com/edp1096/cellml-codegen/pkg/metrics"
	"github.com/edp1096/cellml-codegen/profile"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var fixtureByName = map[string]func() *cellml.Model{
	"empty":                 fixtures.Empty,
	"dependent_eqns":        fixtures.DependentEquations,
	"underconstrained":      fixtures.Underconstrained,
	"overconstrained":       fixtures.Overconstrained,
	"double_initialization": fixtures.DoubleInitialization,
	"hodgkin_huxley_1952":   fixtures.HodgkinHuxley1952,
}

func fixtureNames() []string {
	names := make([]string, 0, len(fixtureByName))
	for name := range fixtureByName {
		names = append(names, name)
	}
	return names
}

func main() {
	var (
		fixtureName = flag.String("fixture", "dependent_eqns",
			fmt.Sprintf("built-in fixture model to process (one of: %s)", strings.Join(fixtureNames(), ", ")))
		profileName = flag.String("profile", "c", "generator profile: c or python")
		configPath  = flag.String("config", "", "optional YAML config file")
		metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address and block")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("loading config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *profileName != "" {
		cfg.Profile = *profileName
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	reg := metrics.New()

	newModel, ok := fixtureByName[*fixtureName]
	if !ok {
		logger.Error("unknown fixture", "fixture", *fixtureName)
		os.Exit(1)
	}
	model := newModel()

	prof := profile.New(profile.Kind(cfg.Profile))
	if prof == nil {
		logger.Error("unknown profile", "profile", cfg.Profile)
		os.Exit(1)
	}

	start := time.Now()

	ch := diag.New()
	eqres := equivalence.Build(model, ch)
	equations := classify.Classify(model, ch)
	sys := analyze.Analyze(eqres, equations, ch)
	ch.Sort()

	for _, cv := range sys.Variables {
		reg.RecordClassifiedVariable(cv.Role.String())
	}
	for range sys.States {
		reg.RecordClassifiedVariable(analyze.RoleState.String())
	}

	var code string
	var genErr error
	switch {
	case cfg.CacheDir != "":
		c, err := cache.New(cfg.CacheDir)
		if err != nil {
			logger.Warn("cache unavailable, generating without it", "error", err)
			code, genErr = generate.Generate(sys, eqres, prof)
		} else {
			code, genErr = generateCached(sys, eqres, prof, c, reg)
		}
	default:
		code, genErr = generate.Generate(sys, eqres, prof)
	}
	if genErr != nil {
		logger.Error("generation failed", "error", genErr)
		os.Exit(1)
	}

	reg.RecordGeneration(time.Since(start))

	printDiagnostics(ch)
	fmt.Printf("\nModel type: %s  states: %d  variables: %d  errors: %d\n",
		sys.Type, sys.StateCount(), sys.VariableCount(), ch.ErrorCount())

	if code != "" {
		fmt.Println("\n--- generated source ---")
		fmt.Println(code)
	}

	if cfg.MetricsAddr != "" {
		serveMetrics(cfg.MetricsAddr, reg, logger)
	}
}

// generateCached wraps generate.Generate with the content-addressed cache,
// keyed on the generated code's own digest plus profile kind (so a cache
// miss still costs one generation, same as an uncached run).
func generateCached(sys *analyze.System, eqres *equivalence.Result, prof *profile.Profile, c *cache.Cache, reg *metrics.Registry) (string, error) {
	code, err := generate.Generate(sys, eqres, prof)
	if err != nil {
		return "", err
	}
	if code == "" {
		return "", nil
	}

	key := cache.Key(generate.Digest(code), string(prof.Kind))
	cached, hit, err := c.Get(key)
	reg.RecordCacheResult(hit)
	if err == nil && hit {
		return cached, nil
	}
	if err := c.Put(key, code); err != nil {
		return code, nil // cache write failure never blocks the generated result
	}
	return code, nil
}

func serveMetrics(addr string, reg *metrics.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server", "error", err)
	}
}

// printDiagnostics prints every accumulated Issue, sorted (Channel.Sort
// already ran) — the same "sorted keys, aligned columns" reporting
// technique as the teacher's printResults, adapted from numeric result
// tables to diagnostic records.
func printDiagnostics(ch *diag.Channel) {
	issues := ch.All()
	if len(issues) == 0 {
		fmt.Println("No diagnostics.")
		return
	}

	severities := map[diag.Severity]string{
		diag.SeverityAdvisory:   "ADVISORY",
		diag.SeverityConstraint: "CONSTRAINT",
		diag.SeverityFatal:      "FATAL",
	}

	fmt.Println("Diagnostics:")
	for _, issue := range issues {
		where := ""
		if issue.Component != "" {
			where = " [" + issue.Component
			if issue.Variable != "" {
				where += "." + issue.Variable
			}
			where += "]"
		}
		fmt.Printf("  %-10s %-13s%s %s\n", severities[issue.Severity], issue.Kind, where, issue.Description)
	}
}
