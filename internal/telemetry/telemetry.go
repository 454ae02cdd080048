package telemetry

// API is where components report what happened to them. Tests substitute
// MemoryAPI to assert on reports, the binary uses SlogAPI.
//
// Ids name the component and method that reported, in lowercase
// "component.method" form: "fetcher.fetch", "store.replace". The package is
// added by ScopedAPI, so ids stay short.
type API interface {
	// ReportBroken reports a failure that stops the job. params usually hold
	// the error and the input that caused it.
	ReportBroken(id string, params ...any)
	// ReportWarning reports something odd that the job carries on through,
	// like a non-2xx status.
	ReportWarning(id string, params ...any)
	ReportDebug(msg string, params ...any)
	// ReportCount records a size observed once, like the number of parsed rows.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id (or debug message) with "namespace: ".
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return s.namespace + ": " + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}
