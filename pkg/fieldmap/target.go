// SPDX-License-Identifier: MPL-2.0

package fieldmap

import "strings"

// CheckTarget rejects a mapped target that climbs out of the package
// directory through ".." segments or reaches into a node_modules folder.
// The final segment names a file and is not counted as a folder.
func CheckTarget(target string) error {
	segments := strings.Split(target, "/")
	depth := 0
	for i, segment := range segments {
		if strings.EqualFold(segment, "node_modules") {
			return targetError(target, "target must not reference a node_modules folder")
		}
		if i == len(segments)-1 {
			break
		}
		switch segment {
		case "..":
			depth--
			if depth < 0 {
				return targetError(target, "trying to access out of package scope")
			}
		case ".", "":
		default:
			depth++
		}
	}
	return nil
}
