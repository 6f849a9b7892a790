package game

import "errors"

var ErrRoomFull = errors.New("room full")
