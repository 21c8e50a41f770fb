// Package nodetools inspects and repairs the Node.js installations managed
// by nvm or nvm-windows.
//
// # Operations
//
//   - [BuildReport]: health of every discovered version
//   - [Fix]: restore a missing node.exe from another *.exe in the folder
//   - [CleanLinks]: delete executables that are symbolic links
//   - [PlanRemoval], [RemoveTarget]: uninstall versions matching a range
//
// Fix and CleanLinks only apply to the nvm-windows layout. Every mutating
// operation has a dry-run form that reports what would happen.
package nodetools
