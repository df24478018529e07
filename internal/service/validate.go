package service

import "github.com/supercloudfm/supercloud/internal/domain"

// Client-side form validation, mirroring what the server enforces so most
// bad input never costs a round trip. Messages match the server's wording;
// forms render them the same way regardless of which side rejected.

// ValidateLogin checks login form input.
func ValidateLogin(credential, password string) []string {
	var msgs []string
	if credential == "" {
		msgs = append(msgs, "please enter your username or email")
	}
	if password == "" {
		msgs = append(msgs, "please enter your password")
	}
	return msgs
}

// ValidateSongDraft checks a song create form. The song file must already
// be uploaded (SongURL set) before submission.
func ValidateSongDraft(draft domain.SongDraft) []string {
	msgs := validateSongFields(draft)
	if draft.SongURL == "" {
		msgs = append([]string{"please upload a song first"}, msgs...)
	}
	return msgs
}

// ValidateSongEdit checks a song edit form; the audio file itself is not
// editable, so SongURL is not required here.
func ValidateSongEdit(draft domain.SongDraft) []string {
	return validateSongFields(draft)
}

func validateSongFields(draft domain.SongDraft) []string {
	var msgs []string
	if draft.Title == "" {
		msgs = append(msgs, "please enter a title")
	}
	if len(draft.Title) > 255 {
		msgs = append(msgs, "title must be shorter than 255 characters")
	}
	if len(draft.Genre) > 25 {
		msgs = append(msgs, "genre must be shorter than 25 characters")
	}
	if len(draft.Description) > 500 {
		msgs = append(msgs, "description must be shorter than 500 characters")
	}
	return msgs
}

// ValidateComment checks a comment form.
func ValidateComment(body string) []string {
	var msgs []string
	if body == "" {
		msgs = append(msgs, "please enter a comment")
	}
	if len(body) > 255 {
		msgs = append(msgs, "comment must be shorter than 255 characters")
	}
	return msgs
}

// validationError wraps client-side validation messages in the same typed
// failure server-side validation produces, so forms have one error path.
func validationError(msgs []string) error {
	return &domain.RequestError{Status: 400, Errors: msgs}
}
