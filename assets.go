package snapfit

import (
	"fmt"

	"github.com/google/uuid"
)

type AssetId string

// ModelFactory builds a fresh scene graph for a model reference.
type ModelFactory func() SceneNode

// LoadedModel is delivered by Poll once a requested model is ready. Owner is
// the part id, or "" for the level target.
type LoadedModel struct {
	Id    AssetId
	Ref   string
	Owner string
	Root  SceneNode
	Err   error
}

type loadRequest struct {
	id    AssetId
	ref   string
	owner string
}

// AssetServer resolves model references. Loads are queued by Request and
// complete on the next Poll, so callers always observe a window in which a
// model is not yet available.
type AssetServer struct {
	factories map[string]ModelFactory
	pending   []loadRequest
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		factories: make(map[string]ModelFactory),
	}
}

func (server *AssetServer) RegisterModel(ref string, factory ModelFactory) {
	server.factories[ref] = factory
}

// HasModel reports whether ref can be loaded at all.
func (server *AssetServer) HasModel(ref string) bool {
	_, ok := server.factories[ref]
	return ok
}

// Request queues a model load and returns the id it will complete under.
func (server *AssetServer) Request(ref string, owner string) AssetId {
	id := makeAssetId()
	server.pending = append(server.pending, loadRequest{id: id, ref: ref, owner: owner})
	return id
}

// Cancel drops every queued request; used when a level is replaced.
func (server *AssetServer) Cancel() {
	server.pending = server.pending[:0]
}

func (server *AssetServer) Pending() int {
	return len(server.pending)
}

// Poll completes all queued loads in request order. The server keeps nothing
// once a model is delivered; owners hold the scene graphs they receive.
func (server *AssetServer) Poll() []LoadedModel {
	if len(server.pending) == 0 {
		return nil
	}
	requests := server.pending
	server.pending = nil

	loaded := make([]LoadedModel, 0, len(requests))
	for _, req := range requests {
		lm := LoadedModel{Id: req.id, Ref: req.ref, Owner: req.owner}
		factory, ok := server.factories[req.ref]
		if !ok {
			lm.Err = fmt.Errorf("model %q not registered", req.ref)
			loaded = append(loaded, lm)
			continue
		}
		lm.Root = factory()
		loaded = append(loaded, lm)
	}
	return loaded
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
