package game

import "errors"

var (
	ErrCharacterExists   = errors.New("character already exists")
	ErrCharacterNotFound = errors.New("character not found")
	ErrZoneNotFound      = errors.New("zone not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrMalformedEvent    = errors.New("malformed event")
	ErrUnknownEvent      = errors.New("unknown event")
)
