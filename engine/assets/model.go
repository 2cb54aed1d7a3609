package assets

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Corner is one triangle corner as read from the model file, before vertex
// deduplication. Texcoord V is already flipped into Vulkan's convention.
type Corner struct {
	Position [3]float32
	TexCoord [2]float32
}

// LoadModel parses a Wavefront OBJ file into a flat triangle-corner stream.
// Only v/vt/f records matter here; faces with more than three corners are
// fan-triangulated. Normals, materials and groups are ignored.
func LoadModel(path string) ([]Corner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model %s: %w", path, err)
	}
	defer f.Close()

	var positions [][3]float32
	var texcoords [][2]float32
	var corners []Corner

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			p, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: bad vertex: %w", path, lineNo, err)
			}
			positions = append(positions, p)
		case "vt":
			t, err := parseFloats2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: bad texcoord: %w", path, lineNo, err)
			}
			// OBJ texcoords are bottom-up; flip V for Vulkan.
			t[1] = 1.0 - t[1]
			texcoords = append(texcoords, t)
		case "f":
			refs := fields[1:]
			if len(refs) < 3 {
				return nil, fmt.Errorf("%s:%d: face with %d corners", path, lineNo, len(refs))
			}
			face := make([]Corner, len(refs))
			for i, ref := range refs {
				c, err := resolveCorner(ref, positions, texcoords)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				face[i] = c
			}
			// Fan triangulation around corner 0.
			for i := 1; i+1 < len(face); i++ {
				corners = append(corners, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	if len(corners) == 0 {
		return nil, fmt.Errorf("model %s contains no faces", path)
	}
	return corners, nil
}

// resolveCorner decodes an OBJ face reference of the form v, v/vt, v//vn or
// v/vt/vn. Indices are one-based; negative values count back from the end.
func resolveCorner(ref string, positions [][3]float32, texcoords [][2]float32) (Corner, error) {
	parts := strings.Split(ref, "/")

	pi, err := resolveIndex(parts[0], len(positions))
	if err != nil {
		return Corner{}, fmt.Errorf("bad position reference %q: %w", ref, err)
	}
	c := Corner{Position: positions[pi]}

	if len(parts) > 1 && parts[1] != "" {
		ti, err := resolveIndex(parts[1], len(texcoords))
		if err != nil {
			return Corner{}, fmt.Errorf("bad texcoord reference %q: %w", ref, err)
		}
		c.TexCoord = texcoords[ti]
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		idx = n + idx
	} else {
		idx--
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, n)
	}
	return idx, nil
}

func parseFloats3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("want 3 components, have %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseFloats2(fields []string) ([2]float32, error) {
	var out [2]float32
	if len(fields) < 2 {
		return out, fmt.Errorf("want 2 components, have %d", len(fields))
	}
	for i := 0; i < 2; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
