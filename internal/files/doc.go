// Package files locates table files on disk for the prepare and upload
// workflows. Discovery is restricted to the formats the table readers
// understand (CSV and XLSX) and returns results in a stable order so
// repeated runs process tables deterministically.
package files
