package routes

import "github.com/tedsuo/rata"

const (
	CreateSession     = "CREATE_SESSION"
	ListSessions      = "LIST_SESSIONS"
	GetSession        = "GET_SESSION"
	AbortSession      = "ABORT_SESSION"
	StartVerification = "START_VERIFICATION"
	GetReport         = "GET_REPORT"
	StreamEvents      = "STREAM_EVENTS"
)

var Routes = rata.Routes{
	{Path: "/sessions", Method: "POST", Name: CreateSession},
	{Path: "/sessions", Method: "GET", Name: ListSessions},

	{Path: "/sessions/:guid", Method: "GET", Name: GetSession},
	{Path: "/sessions/:guid", Method: "DELETE", Name: AbortSession},

	{Path: "/sessions/:guid/verification", Method: "POST", Name: StartVerification},
	{Path: "/sessions/:guid/report", Method: "GET", Name: GetReport},
	{Path: "/sessions/:guid/events", Method: "GET", Name: StreamEvents},
}
