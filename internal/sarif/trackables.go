package sarif

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/issue-tracker/internal/git"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// defaultLevel is the level SARIF assumes when neither the result nor its
// rule carries one.
const defaultLevel = "warning"

// CollectTrackables reads the report at reportPath and turns its results into
// trackables grouped by scope key, the slash separated path of the file
// relative to the repository holding sourceRoot. Line and range signatures are
// computed from the files under sourceRoot; a file that cannot be read still
// yields its findings, without signatures.
func CollectTrackables(logger hclog.Logger, reportPath, sourceRoot string, noSuppressions bool) (map[string][]*tracking.Trackable, error) {
	report, err := ReadReport(reportPath, logger, sourceRoot, noSuppressions)
	if err != nil {
		return nil, err
	}

	md, err := git.CollectRepositoryMetadata(report.sourceFolder)
	if err != nil {
		logger.Debug("source folder is not in a git repository, keys are relative to it", "folder", report.sourceFolder, "err", err)
	}

	if tool, err := report.ExtractToolNameAndVersion(); err == nil {
		logger.Debug("report loaded", "tool", tool.Name, "results", report.ResultCount())
	}

	c := collector{
		logger:  logger,
		md:      md,
		source:  report.sourceFolder,
		sources: map[string]*tracking.Source{},
		grouped: map[string][]*tracking.Trackable{},
	}
	for _, run := range report.Runs {
		rules := rulesByID(run)
		for _, res := range run.Results {
			c.add(res, rules)
		}
	}
	return c.grouped, nil
}

type collector struct {
	logger  hclog.Logger
	md      *git.RepositoryMetadata
	source  string
	sources map[string]*tracking.Source
	grouped map[string][]*tracking.Trackable
}

func (c *collector) add(res *sarif.Result, rules map[string]*sarif.ReportingDescriptor) {
	if res == nil {
		return
	}
	ruleID := ""
	if res.RuleID != nil {
		ruleID = strings.TrimSpace(*res.RuleID)
	}
	if ruleID == "" {
		c.logger.Warn("skipping result without rule id")
		return
	}

	loc := firstPhysicalLocation(res)
	if loc == nil {
		c.logger.Warn("skipping result without file location", "rule", ruleID)
		return
	}
	localPath := ResolveLocalPath(*loc.ArtifactLocation.URI, c.md, c.source)
	key, err := git.ScopeKey(c.md.RepoRootFolder, localPath)
	if err != nil {
		c.logger.Warn("skipping result outside of the repository", "rule", ruleID, "uri", *loc.ArtifactLocation.URI, "err", err)
		return
	}

	rule := rules[ruleID]
	t := &tracking.Trackable{
		RuleKey:  ruleID,
		Severity: severityOf(res, rule),
		Type:     typeOf(res, rule),
		Message:  messageOf(res),
	}

	src := c.sourceFor(localPath)
	if line, tr := regionOf(loc.Region, src); line != nil {
		t.Line = line
		t.TextRange = tr
		if src != nil {
			t.LineHash = src.LineHash(*line)
		}
	}

	c.grouped[key] = append(c.grouped[key], t)
}

// sourceFor loads path once; nil when it cannot be read.
func (c *collector) sourceFor(path string) *tracking.Source {
	if src, ok := c.sources[path]; ok {
		return src
	}
	src, err := tracking.LoadSource(path)
	if err != nil {
		c.logger.Debug("source file is not readable, signatures are skipped", "path", path, "err", err)
		src = nil
	}
	c.sources[path] = src
	return src
}

func rulesByID(run *sarif.Run) map[string]*sarif.ReportingDescriptor {
	rules := map[string]*sarif.ReportingDescriptor{}
	if run == nil || run.Tool.Driver == nil {
		return rules
	}
	for _, rule := range run.Tool.Driver.Rules {
		if rule != nil {
			rules[rule.ID] = rule
		}
	}
	return rules
}

// regionOf converts a SARIF region into a 1-based line and a text range with
// 0-based character offsets. A missing end line means the start line, a
// missing end column means the end of the line. Regions without start line
// describe the whole file and yield nil.
func regionOf(region *sarif.Region, src *tracking.Source) (*int, *tracking.TextRange) {
	if region == nil || region.StartLine == nil || *region.StartLine < 1 {
		return nil, nil
	}

	tr := &tracking.TextRange{StartLine: *region.StartLine, EndLine: *region.StartLine}
	if region.EndLine != nil && *region.EndLine >= tr.StartLine {
		tr.EndLine = *region.EndLine
	}
	if region.StartColumn != nil && *region.StartColumn > 1 {
		tr.StartLineOffset = *region.StartColumn - 1
	}
	switch {
	case region.EndColumn != nil && *region.EndColumn > 0:
		tr.EndLineOffset = *region.EndColumn - 1
	case src != nil && src.LineLength(tr.EndLine) >= 0:
		tr.EndLineOffset = src.LineLength(tr.EndLine)
	case tr.EndLine == tr.StartLine:
		tr.EndLineOffset = tr.StartLineOffset
	}

	if src != nil {
		tr.Hash = src.RangeHash(*tr)
	}
	return tracking.Int(tr.StartLine), tr
}

func messageOf(res *sarif.Result) string {
	if res.Message.Text != nil {
		return strings.TrimSpace(*res.Message.Text)
	}
	if res.Message.Markdown != nil {
		return strings.TrimSpace(*res.Message.Markdown)
	}
	return ""
}

// severityOf maps the SARIF level of res, or of its rule, to a severity.
func severityOf(res *sarif.Result, rule *sarif.ReportingDescriptor) tracking.Severity {
	level := defaultLevel
	switch {
	case res.Level != nil && *res.Level != "":
		level = *res.Level
	case rule != nil && rule.DefaultConfiguration != nil && rule.DefaultConfiguration.Level != "":
		level = rule.DefaultConfiguration.Level
	}
	return levelToSeverity(level)
}

func levelToSeverity(level string) tracking.Severity {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return tracking.SeverityCritical
	case "note":
		return tracking.SeverityMinor
	case "none":
		return tracking.SeverityInfo
	default:
		return tracking.SeverityMajor
	}
}

// typeOf classifies res as a vulnerability when it or its rule is tagged
// "security".
func typeOf(res *sarif.Result, rule *sarif.ReportingDescriptor) tracking.RuleType {
	tags := tagsOf(res.Properties)
	if rule != nil {
		tags = append(tags, tagsOf(rule.Properties)...)
	}
	for _, tag := range tags {
		if strings.EqualFold(strings.TrimSpace(tag), "security") {
			return tracking.TypeVulnerability
		}
	}
	return tracking.TypeCodeSmell
}

func tagsOf(props map[string]interface{}) []string {
	var tags []string
	switch tv := props["tags"].(type) {
	case []string:
		tags = append(tags, tv...)
	case []interface{}:
		for _, it := range tv {
			if s, ok := it.(string); ok {
				tags = append(tags, s)
			}
		}
	}
	return tags
}

// Keys returns the keys of grouped in lexical order.
func Keys(grouped map[string][]*tracking.Trackable) []string {
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summary describes a collected report in one line.
func Summary(grouped map[string][]*tracking.Trackable) string {
	total := 0
	for _, ts := range grouped {
		total += len(ts)
	}
	return fmt.Sprintf("%d findings in %d files", total, len(grouped))
}
