package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualViewFactory(t *testing.T) {
	cfg := Config{
		ID:           "dev-01",
		ProductCodes: []string{"IU", "WS"},
		ProjectPaths: []string{"/home/dev/webapp", "/home/dev/api"},
	}

	view, err := ManualViewFactory{}.Create(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []IDEStub{{ProductCode: "IU"}, {ProductCode: "WS"}}, view.IDEs())
	assert.Equal(t, []Project{{Path: "/home/dev/webapp"}, {Path: "/home/dev/api"}}, view.Projects())
}

func TestManualViewFactory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ManualViewFactory{}.Create(ctx, Config{ID: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManualContentsView_ReturnsCopies(t *testing.T) {
	running := true
	view := NewManualContentsView([]IDEStub{{ProductCode: "IU", Running: &running}}, []Project{{Path: "/a"}})

	ides := view.IDEs()
	ides[0].ProductCode = "GO"
	assert.Equal(t, "IU", view.IDEs()[0].ProductCode)
	require.NotNil(t, view.IDEs()[0].Running)
	assert.True(t, *view.IDEs()[0].Running)
}

func TestSSHViewFactory(t *testing.T) {
	factory := SSHViewFactory{DefaultUsername: "dev"}

	view, err := factory.Create(context.Background(), Config{
		ID:           "dev-02",
		Host:         "example.example.com",
		Port:         2222,
		ProductCodes: []string{"IU"},
		ProjectPaths: []string{"/opt/app"},
	})
	require.NoError(t, err)

	ssh, ok := view.(*SSHContentsView)
	require.True(t, ok)
	assert.Equal(t, "example.example.com", ssh.Host)
	assert.Equal(t, 2222, ssh.Port)
	assert.Equal(t, "dev", ssh.Username)
	assert.Equal(t, []Project{{Path: "/opt/app"}}, ssh.Projects())
}

func TestSSHViewFactory_DefaultsAndErrors(t *testing.T) {
	view, err := SSHViewFactory{}.Create(context.Background(), Config{ID: "a", Host: "h", Username: "root"})
	require.NoError(t, err)
	ssh := view.(*SSHContentsView)
	assert.Equal(t, DefaultSSHPort, ssh.Port)
	assert.Equal(t, "root", ssh.Username)

	_, err = SSHViewFactory{}.Create(context.Background(), Config{ID: "a"})
	assert.Error(t, err)
}
