// querygate inspects the permission paths an ad-hoc query requires, using a
// SQLite metadata database for catalog and saved-query lookups.
package main

func main() {
	Execute()
}
