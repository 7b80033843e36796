// Package testutil mints EC keys, key files and accesstokens for tests.
package testutil
