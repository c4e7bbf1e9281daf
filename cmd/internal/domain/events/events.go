package events

import "simplecms/cmd/internal/contract"

type SocketEvent interface {
	GetType() contract.EventType
}

type PostCreated struct {
	*contract.PostResponse
}

func (e *PostCreated) GetType() contract.EventType {
	return contract.EventPostCreated
}

type PostUpdated struct {
	*contract.PostResponse
}

func (e *PostUpdated) GetType() contract.EventType {
	return contract.EventPostUpdated
}

type PostDeleted struct {
	PostID string `json:"id"`
}

func (e *PostDeleted) GetType() contract.EventType {
	return contract.EventPostDeleted
}

type CategoryCreated struct {
	*contract.CategoryResponse
}

func (e *CategoryCreated) GetType() contract.EventType {
	return contract.EventCategoryCreated
}

type NoteCreated struct {
	*contract.NoteResponse
}

func (e *NoteCreated) GetType() contract.EventType {
	return contract.EventNoteCreated
}

type NoteUpdated struct {
	*contract.NoteResponse
}

func (e *NoteUpdated) GetType() contract.EventType {
	return contract.EventNoteUpdated
}

type NoteDeleted struct {
	NoteID string `json:"id"`
}

func (e *NoteDeleted) GetType() contract.EventType {
	return contract.EventNoteDeleted
}
