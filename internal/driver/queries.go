package driver

const (
	UserLabel     = "User"
	FollowsRel    = "FOLLOWS"
	HandleProp    = "handle"
	CrossStoreKey = "mongoId"

	ConnectivityQuery = `RETURN "neo4j connected" AS msg`
)

var GraphIndexQueries = []string{
	`CREATE INDEX user_mongoid IF NOT EXISTS FOR (u:User) ON (u.mongoId)`,
	`CREATE INDEX user_handle IF NOT EXISTS FOR (u:User) ON (u.handle)`,
}
