// Package files locates patient datasets on disk.
//
// Discovery walks an input root laid out as one directory per patient,
// finds the monitor trend exports (.xlsx/.csv) inside each, and
// resolves the optional laboratory export by glob pattern. Export
// files are returned oldest first so batch order follows export order.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	patients, err := discovery.ListPatientDirs("data/exports")
//	exports, err := discovery.FindExportFiles(patients[0].Path)
//	lab, ok, err := discovery.FindLabFile(patients[0].Path, "*lab*")
package files
