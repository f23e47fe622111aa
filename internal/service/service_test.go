package service

import (
	"bytes"
	"mime/multipart"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"notekeep/internal/auth"
	"notekeep/internal/contract"
	"notekeep/internal/domain/entity"
	"notekeep/internal/domain/policy"
	"notekeep/internal/storage"
	"notekeep/internal/storage/file"
	"notekeep/internal/utils/uid"
	"notekeep/internal/utils/validators"
)

func TestMain(m *testing.M) {
	uid.Init(1)
	os.Exit(m.Run())
}

// memoryBucket keeps uploads in memory so attachment tests never touch S3.
type memoryBucket struct {
	uploads map[string][]byte
}

func newMemoryBucket() *memoryBucket {
	return &memoryBucket{uploads: map[string][]byte{}}
}

func (b *memoryBucket) UploadFile(data []byte, filename string) (string, error) {
	key := "attachments/" + filename
	b.uploads[key] = data
	return key, nil
}

type testEnv struct {
	store      storage.Provider
	bucket     *memoryBucket
	users      *UserService
	notes      *NoteService
	categories *CategoryService
	admin      *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := file.NewProvider(t.TempDir())
	require.NoError(t, err)

	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("hexrgb", validators.HexRGB))
	require.NoError(t, validate.RegisterValidation("notblank", validators.NotBlank))
	require.NoError(t, validate.RegisterValidation("nodupes", validators.NoDupes))
	require.NoError(t, validate.RegisterValidation("nospaces", validators.NoWhiteSpaces))

	bucket := newMemoryBucket()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return &testEnv{
		store:      store,
		bucket:     bucket,
		users:      NewUserService(store, tokens, validate),
		notes:      NewNoteService(store, bucket, validate),
		categories: NewCategoryService(store, validate),
		admin:      NewAdminService(store, validate, policy.NewUserPolicy()),
	}
}

// registerUser runs a registration and returns the persisted entity.
func registerUser(t *testing.T, env *testEnv, username, email string) *entity.User {
	t.Helper()

	resp, apierr := env.users.Register(&contract.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.Nil(t, apierr)

	user, err := env.store.Users().FindByID(resp.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

// makeFileHeader builds a real multipart file header around content.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	headers := form.File["file"]
	require.Len(t, headers, 1)
	return headers[0]
}
