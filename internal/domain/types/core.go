package types

// Route is the operation name; the HTTP binding uses it as the request path.
type Route string

// String returns the string form of the route.
func (r Route) String() string { return string(r) }

const (
	RouteLogin      Route = "/users/login"
	RouteListCards  Route = "/cards/list"
	RouteCreateCard Route = "/cards/create"
	RouteUpdateCard Route = "/cards/update"
	RouteDeleteCard Route = "/cards/delete"
)

// Params is the parameter set of one request. Encoding a map with
// encoding/json sorts its keys, which makes the serialisation canonical.
type Params map[string]any

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p)+5)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Stamped parameter keys added by the request builder.
const (
	ParamVersion    = "version"
	ParamVersionKey = "versionKey"
	ParamSession    = "session"
	ParamTimestamp  = "timestamp"
	ParamCacheKey   = "cacheKey"
)
