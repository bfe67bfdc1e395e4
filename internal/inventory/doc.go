// Package inventory enumerates the tracked files of a built image.
//
// An inventory is the list of regular files (path and byte size) under a
// configured set of root directories. It is produced by streaming each root
// out of a container as a tar archive and walking the headers, so nothing is
// unpacked to disk and the image is never modified. Inventories feed the
// diff engine, which compares a candidate image against a published
// reference.
package inventory
