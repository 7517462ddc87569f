// Package port defines application-layer interfaces for external capabilities.
// Ports abstract the toolkit collaborators (native peer, component tree, key
// queue, event delivery) so the focus core stays independent of any widget toolkit.
package port

import "github.com/bnema/focuscore/internal/domain/entity"

// ComponentTree answers structural questions about the element hierarchy.
// Implementations must not block and must not call back into the focus core.
type ComponentTree interface {
	// NativeContainer returns the native-backed element that hosts id: id itself
	// for heavyweights, the nearest heavyweight ancestor for lightweights, and
	// entity.None when id is not displayable.
	NativeContainer(id entity.ElementID) entity.ElementID
	// IsHeavyweight reports whether id has its own native peer.
	IsHeavyweight(id entity.ElementID) bool
	// TopLevel returns the window containing id (id itself for windows).
	TopLevel(id entity.ElementID) entity.ElementID
	// IsWindow reports whether id is a top-level window.
	IsWindow(id entity.ElementID) bool
	// IsFocusableWindow reports whether the window may become the focused window.
	IsFocusableWindow(id entity.ElementID) bool
	// ActivatableWindow returns the frame or dialog owning window (possibly itself).
	ActivatableWindow(window entity.ElementID) entity.ElementID
	// IsFocusable reports whether id can currently own focus (focusable, showing, enabled).
	IsFocusable(id entity.ElementID) bool
	// IsFocusCycleRoot reports whether id anchors a focus traversal cycle.
	IsFocusCycleRoot(id entity.ElementID) bool
	// FocusCycleRootAncestor returns the nearest cycle root above id.
	FocusCycleRootAncestor(id entity.ElementID) entity.ElementID

	// ComponentAfter returns the element following id in root's cycle,
	// wrapping around at the end.
	ComponentAfter(root, id entity.ElementID) entity.ElementID
	// ComponentBefore returns the element preceding id in root's cycle,
	// wrapping around at the start.
	ComponentBefore(root, id entity.ElementID) entity.ElementID
	// DefaultComponent returns the element to focus when entering root's cycle.
	DefaultComponent(root entity.ElementID) entity.ElementID
}
