package dashboard

import "strings"

// View is the screen a deep link opens.
type View int

const (
	ViewDashboard View = iota
	ViewPipeline
	ViewCandidateProfile
)

func (v View) String() string {
	switch v {
	case ViewPipeline:
		return "pipeline"
	case ViewCandidateProfile:
		return "candidate-profile"
	}
	return "dashboard"
}

// Route is a parsed deep link.
type Route struct {
	View View
	ID   string // job ID for pipelines, candidate ID for profiles
}

// ParseRoute recognizes /pipelines/<id> and /candidate-profiles/<id>.
// Any other path, including those forms with an empty or nested ID,
// routes to the dashboard.
func ParseRoute(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSuffix(path, "/")
	for prefix, view := range map[string]View{
		"/pipelines/":          ViewPipeline,
		"/candidate-profiles/": ViewCandidateProfile,
	} {
		id, ok := strings.CutPrefix(path, prefix)
		if ok && id != "" && !strings.Contains(id, "/") {
			return Route{View: view, ID: id}
		}
	}
	return Route{View: ViewDashboard}
}
