package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"oxypace/oxypace/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(fields []FieldError) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return names
}

func TestRegisterShortPasswordRejected(t *testing.T) {
	req := types.RegisterRequest{Email: "ann@oxypace.com", Username: "ann_1", Password: "short"}

	fields := Validate(req)

	require.Len(t, fields, 1)
	assert.Equal(t, "password", fields[0].Field)
	assert.Equal(t, "password must be at least 8 characters", fields[0].Message)
}

func TestRegisterValid(t *testing.T) {
	req := types.RegisterRequest{Email: "ann@oxypace.com", Username: "ann_1", Password: "correct horse"}
	assert.Empty(t, Validate(req))
}

func TestRegisterUsernameRules(t *testing.T) {
	fields := Validate(types.RegisterRequest{Email: "not-an-email", Username: "a b!", Password: "longenough"})
	assert.ElementsMatch(t, []string{"email", "username"}, fieldNames(fields))

	fields = Validate(types.RegisterRequest{Email: "x@y.io", Username: "ab", Password: "longenough"})
	require.Len(t, fields, 1)
	assert.Equal(t, "username must be at least 3 characters", fields[0].Message)
}

func TestPostContentLimit(t *testing.T) {
	ok := types.CreatePostRequest{Content: strings.Repeat("a", 5000)}
	assert.Empty(t, Validate(ok))

	tooLong := types.CreatePostRequest{Content: strings.Repeat("a", 5001)}
	fields := Validate(tooLong)
	require.Len(t, fields, 1)
	assert.Equal(t, "content", fields[0].Field)
	assert.Equal(t, "content must be at most 5000 characters", fields[0].Message)
}

func TestPostNeedsContentOrMedia(t *testing.T) {
	fields := Validate(types.CreatePostRequest{})
	require.Len(t, fields, 1)
	assert.Equal(t, "content", fields[0].Field)
	assert.Equal(t, "content is required when media_url is empty", fields[0].Message)

	mediaOnly := types.CreatePostRequest{MediaURL: "https://i.imgur.com/cat.gif", MediaType: "gif"}
	assert.Empty(t, Validate(mediaOnly))
}

func TestPostMediaTypeAndPortal(t *testing.T) {
	fields := Validate(types.CreatePostRequest{Content: "hi", MediaURL: "https://x.io/a.mov", MediaType: "video", Portal: "Not A Slug"})
	assert.ElementsMatch(t, []string{"media_type", "portal"}, fieldNames(fields))
}

func TestContactSubjectEnumeration(t *testing.T) {
	fields := Validate(types.ContactRequest{Subject: "sales", Message: "please call me back"})
	require.Len(t, fields, 1)
	assert.Equal(t, "subject", fields[0].Field)
	assert.Contains(t, fields[0].Message, "general, bug, feature, account, abuse, other")

	assert.Empty(t, Validate(types.ContactRequest{Subject: "bug", Message: "feed is empty again"}))

	fields = Validate(types.ContactRequest{Subject: "bug", Message: "short"})
	require.Len(t, fields, 1)
	assert.Equal(t, "message", fields[0].Field)
}

func TestContactStatusEnumeration(t *testing.T) {
	assert.Empty(t, Validate(types.ContactStatusRequest{Status: "archived"}))
	assert.Len(t, Validate(types.ContactStatusRequest{Status: "deleted"}), 1)
}

func TestSendMessageRecipientMustBeUUID(t *testing.T) {
	fields := Validate(types.SendMessageRequest{RecipientID: "42", Content: "hi"})
	require.Len(t, fields, 1)
	assert.Equal(t, "recipient_id must be a valid id", fields[0].Message)
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.io","username":"abc","password":"1234"}`))
	var req types.RegisterRequest
	verr := DecodeAndValidate(r, &req)
	require.NotNil(t, verr)
	assert.Equal(t, "validation failed", verr.Message)
	assert.Equal(t, []string{"password"}, fieldNames(verr.Fields))
	assert.Equal(t, "validation failed: password must be at least 8 characters", verr.Error())

	bad := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	verr = DecodeAndValidate(bad, &req)
	require.NotNil(t, verr)
	assert.Equal(t, "invalid request body", verr.Message)
	assert.Empty(t, verr.Fields)
}

func TestWhitespaceOnlyTextRejected(t *testing.T) {
	post := &types.CreatePostRequest{Content: "   \n\t"}
	verr := Check(post)
	require.NotNil(t, verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "content is required when media_url is empty", verr.Fields[0].Message)

	withMedia := &types.CreatePostRequest{Content: "  ", MediaURL: " https://oxypace.com/a.png "}
	assert.Nil(t, Check(withMedia))
	assert.Equal(t, "", withMedia.Content)
	assert.Equal(t, "https://oxypace.com/a.png", withMedia.MediaURL)

	comment := &types.CreateCommentRequest{Content: " "}
	verr = Check(comment)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"content"}, fieldNames(verr.Fields))

	msg := &types.SendMessageRequest{RecipientID: "5f0c6f5e-9b8e-4a64-8d5c-0c1f4a3f2b11", Content: "\t"}
	verr = Check(msg)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"content"}, fieldNames(verr.Fields))

	trimmed := &types.SendMessageRequest{RecipientID: "5f0c6f5e-9b8e-4a64-8d5c-0c1f4a3f2b11", Content: "  hi  "}
	assert.Nil(t, Check(trimmed))
	assert.Equal(t, "hi", trimmed.Content)
}
