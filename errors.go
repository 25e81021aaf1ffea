package soundry

import "errors"

var (
	// ErrNoSource means a sound has neither a source locator nor raw bytes
	// configured, so there is nothing to load.
	ErrNoSource = errors.New("soundry: no source locator or raw bytes configured")

	// ErrNotFound means no asset is registered under the given alias.
	ErrNotFound = errors.New("soundry: alias not found")

	// ErrSpriteNotFound means a play request referenced an undefined sprite.
	ErrSpriteNotFound = errors.New("soundry: sprite not found")

	// ErrSpriteExists means AddSprite was called with a name already in use.
	ErrSpriteExists = errors.New("soundry: sprite already exists")

	// ErrInvalidSprite means a sprite window is out of range.
	ErrInvalidSprite = errors.New("soundry: invalid sprite window")

	// ErrDestroyed means an operation was attempted on a destroyed sound.
	ErrDestroyed = errors.New("soundry: sound destroyed")

	// ErrPlayCanceled rejects a deferred play whose asset was stopped or
	// destroyed before its load finished.
	ErrPlayCanceled = errors.New("soundry: pending play canceled")
)
