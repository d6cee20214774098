package reqdbmigrate

import (
	"fmt"

	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}

	// SchemaFrom is the schema level this package upgrades from.
	SchemaFrom = semver.Version{Major: 1, Minor: 0}

	// SchemaTo is the schema level written to the db_version marker.
	SchemaTo = semver.Version{Major: 1, Minor: 1}
)

func Version() semver.Version {
	return version
}

// schemaString renders a schema level the way ReqDB stores it ("1.1").
func schemaString(v semver.Version) string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
