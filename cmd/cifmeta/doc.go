/*
Cifmeta pulls the chemical formula, unit cell and atomic sites out of
crystallographic information files (cif).

Usage:

	cifmeta formula FILE...
	cifmeta cell FILE
	cifmeta sites [--row N] FILE
	cifmeta scan DIR
	cifmeta fetch [-o FILE] COD_ID

Files may be gzipped. fetch downloads from the Crystallography Open
Database, by default https://www.crystallography.net/cod/.

Settings are read from the file named by --config (TOML), then from a
.env file in the current directory, then from CIFMETA_* environment
variables such as CIFMETA_MAX_ATOMS. --log-level and --log-format win
over all of these.

The exit code is 0 on success, 1 if something went wrong with the files
and 2 for a bad command line.
*/
package main
