package recording

import "github.com/gogpu/sigplay"

// ResourcePool stores the paths referenced by recording commands.
// Paths are shared with the document, which never mutates them after
// decoding, so they are stored without cloning.
//
// ResourcePool is not safe for concurrent use while recording; a finished
// Recording only reads it.
type ResourcePool struct {
	paths []*sigplay.Path
	index map[*sigplay.Path]PathRef
}

// NewResourcePool creates an empty resource pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		paths: make([]*sigplay.Path, 0, 64),
		index: make(map[*sigplay.Path]PathRef),
	}
}

// AddPath adds a path to the pool and returns its reference. Adding the
// same path twice returns the same reference.
func (p *ResourcePool) AddPath(path *sigplay.Path) PathRef {
	if path != nil {
		if ref, ok := p.index[path]; ok {
			return ref
		}
	}
	p.paths = append(p.paths, path)
	// #nosec G115 -- pool size is bounded by the document, well under uint32 max
	ref := PathRef(uint32(len(p.paths) - 1))
	if path != nil {
		p.index[path] = ref
	}
	return ref
}

// GetPath returns the path for the given reference.
// Returns nil if the reference is invalid.
func (p *ResourcePool) GetPath(ref PathRef) *sigplay.Path {
	if int(ref) >= len(p.paths) {
		return nil
	}
	return p.paths[ref]
}

// PathCount returns the number of paths in the pool.
func (p *ResourcePool) PathCount() int {
	return len(p.paths)
}
