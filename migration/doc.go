/*
Package migration provides tooling necessary for working with schema versioned
packages.

Schema version is declared per package. Version 1 is the initial layout and
is created in the genesis ("initialize_schema" section). Every later version
is reached through a privileged UpgradeSchemaMsg that runs the migration
function registered for that version and records the new version. Versions
are strictly sequential: a package at version N can only be upgraded to N+1.

Extension integration.

1. register your migration functions in package `init`:

	func init() {
		migration.MustRegister("mypkg", 2, migrateToV2)
	}

2. register migration message handlers using `RegisterRoutes` and the schema
query using `RegisterQuery`.
*/
package migration
