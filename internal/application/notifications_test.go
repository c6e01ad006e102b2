package application_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/deployfix/internal/application"
	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

func TestNotificationLog_KeepsMostRecent(t *testing.T) {
	log := application.NewNotificationLog(3)
	for i := 0; i < 5; i++ {
		log.Add(model.Notification{DeploymentID: fmt.Sprintf("dep-%d", i)})
	}

	items := log.List()

	require.Len(t, items, 3)
	assert.Equal(t, "dep-2", items[0].DeploymentID)
	assert.Equal(t, "dep-4", items[2].DeploymentID)
}

func TestNotificationLog_DefaultLimit(t *testing.T) {
	log := application.NewNotificationLog(0)
	for i := 0; i < application.DefaultNotificationLimit+10; i++ {
		log.Add(model.Notification{})
	}
	assert.Len(t, log.List(), application.DefaultNotificationLimit)
}

func TestNotificationLog_Clear(t *testing.T) {
	log := application.NewNotificationLog(10)
	log.Add(model.Notification{DeploymentID: "a"})
	log.Add(model.Notification{DeploymentID: "b"})

	assert.Equal(t, 2, log.Clear())
	assert.Empty(t, log.List())
	assert.Equal(t, 0, log.Clear())
}

func TestNotificationLog_ListIsCopy(t *testing.T) {
	log := application.NewNotificationLog(10)
	log.Add(model.Notification{DeploymentID: "a"})

	items := log.List()
	items[0].DeploymentID = "changed"

	assert.Equal(t, "a", log.List()[0].DeploymentID)
}
