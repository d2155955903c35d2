package web

import (
	"fmt"
	"net/http"
	"pcluster/pcui/costexplorer"
	"pcluster/pcui/pcluster"
	"time"
)

const validWizardState = `{
	"version": "3.7.0",
	"clusterName": "fresh-cluster",
	"config": {
		"HeadNode": {"InstanceType": "t2.micro", "Networking": {"SubnetId": "subnet-1"}},
		"Scheduling": {"Scheduler": "slurm", "SlurmQueues": [{
			"Name": "queue-1",
			"Networking": {"SubnetIds": ["subnet-1"]},
			"ComputeResources": [{"Name": "cr-0", "Instances": [{"InstanceType": "c5.large"}]}]
		}]}
	}
}`

func (suite *EnvironTestSuite) TestWizardStateOk() {
	suite.Authenticate()
	rr := suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard.clusterName", `"my-cluster"`)
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.NotEmpty(suite.Session.Values[SESSION_WIZARD_KEY])

	rr = suite.DoGet("/manager/wizard/state?path=app.wizard.clusterName")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal("my-cluster", suite.decode(rr)["value"])

	rr = suite.DoRequest("DELETE", "/manager/wizard/state?path=app.wizard.clusterName", "")
	suite.Equal(http.StatusNoContent, rr.Code)
	rr = suite.DoGet("/manager/wizard/state?path=app.wizard.clusterName")
	suite.Nil(suite.decode(rr)["value"])
}

func (suite *EnvironTestSuite) TestWizardStateSeparatedBySession() {
	suite.Authenticate()
	suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard.clusterName", `"mine"`)
	suite.Session.Values[SESSION_WIZARD_KEY] = "another-session"
	rr := suite.DoGet("/manager/wizard/state?path=app.wizard.clusterName")
	suite.Nil(suite.decode(rr)["value"])
	suite.Equal(2, suite.Env.wizards.Len())
}

func (suite *EnvironTestSuite) TestWizardStateClearAll() {
	suite.Authenticate()
	suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard", validWizardState)
	rr := suite.DoRequest("DELETE", "/manager/wizard/state", "")
	suite.Equal(http.StatusNoContent, rr.Code)
	rr = suite.DoGet("/manager/wizard/state")
	suite.Equal(map[string]interface{}{}, suite.decode(rr)["value"])
}

func (suite *EnvironTestSuite) TestWizardStateEmptyPathFail() {
	suite.Authenticate()
	rr := suite.DoRequest("PUT", "/manager/wizard/state", `{}`)
	suite.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *EnvironTestSuite) TestWizardStateIndexPathFail() {
	suite.Authenticate()
	rr := suite.DoRequest("PUT", "/manager/wizard/state?path=0", `"x"`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())

	rr = suite.DoRequest("PUT", "/manager/wizard/state?path=0.name", `"x"`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())

	rr = suite.DoRequest("DELETE", "/manager/wizard/state?path=0", "")
	suite.Equal(http.StatusNoContent, rr.Code)

	rr = suite.DoGet("/manager/wizard/state?path=0")
	suite.Equal(http.StatusOK, rr.Code)
	suite.Nil(suite.decode(rr)["value"])
}

func (suite *EnvironTestSuite) TestWizardValidateClusterName() {
	suite.Authenticate()
	suite.Clusters.clusters = []*pcluster.ClusterInfoSummary{{ClusterName: "taken"}}
	suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard.clusterName", `"taken"`)

	rr := suite.DoRequest("POST", "/manager/wizard/validate/cluster", "")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	data := suite.decode(rr)
	suite.Equal(false, data["valid"])
	suite.Equal("existing_name", data["errors"].(map[string]interface{})["clusterName"])

	suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard.editing", `true`)
	rr = suite.DoRequest("POST", "/manager/wizard/validate/cluster", "")
	suite.Equal(true, suite.decode(rr)["valid"])

	rr = suite.DoRequest("POST", "/manager/wizard/validate/nope", "")
	suite.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *EnvironTestSuite) TestWizardSubmitOk() {
	suite.Authenticate("admin")
	suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard", validWizardState)

	rr := suite.DoRequest("POST", "/manager/wizard/submit?dryrun=true", "")
	suite.Equal(http.StatusAccepted, rr.Code, rr.Body.String())
	suite.Require().NotNil(suite.Clusters.created)
	suite.True(suite.Clusters.created.DryRun)
	suite.Equal(1, suite.Env.wizards.Len())

	rr = suite.DoRequest("POST", "/manager/wizard/submit", "")
	suite.Equal(http.StatusAccepted, rr.Code, rr.Body.String())
	suite.Equal("fresh-cluster", suite.Clusters.created.Name)
	suite.False(suite.Clusters.created.DryRun)
	suite.Contains(suite.Clusters.created.Configuration, "InstanceType: t2.micro")
	suite.Contains(suite.Clusters.created.Configuration, "parallelcluster-ui")
	suite.Equal(0, suite.Env.wizards.Len())
}

func (suite *EnvironTestSuite) TestWizardSubmitEditing() {
	suite.Authenticate("admin")
	suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard", validWizardState)
	suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard.editing", `true`)
	suite.Clusters.clusters = []*pcluster.ClusterInfoSummary{{ClusterName: "fresh-cluster"}}

	rr := suite.DoRequest("POST", "/manager/wizard/submit?forceUpdate=true", "")
	suite.Equal(http.StatusAccepted, rr.Code, rr.Body.String())
	suite.Nil(suite.Clusters.created)
	suite.Require().NotNil(suite.Clusters.updated)
	suite.Equal("fresh-cluster", suite.Clusters.updated.Name)
	suite.True(suite.Clusters.updated.ForceUpdate)
}

func (suite *EnvironTestSuite) TestWizardSubmitInvalid() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("POST", "/manager/wizard/submit", "")
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
	errors := suite.decode(rr)["errors"].(map[string]interface{})
	suite.Equal("version_select", errors["version"].(map[string]interface{})["version"])
	suite.Nil(suite.Clusters.created)
}

func (suite *EnvironTestSuite) TestWizardLoadCluster() {
	suite.Authenticate("admin")
	suite.Clusters.configuration = testConfiguration
	rr := suite.DoRequest("POST", "/manager/wizard/load?cluster=c1&edit=true&version=3.7.0", "")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())

	rr = suite.DoGet("/manager/wizard/state?path=app.wizard.config.HeadNode.InstanceType")
	suite.Equal("t2.micro", suite.decode(rr)["value"])
	rr = suite.DoGet("/manager/wizard/state?path=app.wizard")
	state := suite.decode(rr)["value"].(map[string]interface{})
	suite.Equal("c1", state["clusterName"])
	suite.Equal(true, state["editing"])
	suite.Equal("3.7.0", state["version"])

	rr = suite.DoRequest("POST", "/manager/wizard/load", "")
	suite.Equal(http.StatusBadRequest, rr.Code)
	suite.Clusters.configuration = ""
	rr = suite.DoRequest("POST", "/manager/wizard/load?cluster=missing", "")
	suite.Equal(http.StatusNotFound, rr.Code)
}

func (suite *EnvironTestSuite) TestTemplatesOk() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("POST", "/manager/templates", `{"name":"small","description":"one node","version":"3.7.0","configuration":"HeadNode:\n  InstanceType: t3.small\n"}`)
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Contains(suite.Templates.templates, "small")

	rr = suite.DoGet("/manager/templates")
	suite.Len(suite.decode(rr)["templates"], 1)

	rr = suite.DoGet("/manager/templates/small")
	suite.Equal("one node", suite.decode(rr)["description"])

	rr = suite.DoRequest("POST", "/manager/templates/small/load", "")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	rr = suite.DoGet("/manager/wizard/state?path=app.wizard.config.HeadNode.InstanceType")
	suite.Equal("t3.small", suite.decode(rr)["value"])
	rr = suite.DoGet("/manager/wizard/state?path=app.wizard.version")
	suite.Equal("3.7.0", suite.decode(rr)["value"])

	rr = suite.DoRequest("DELETE", "/manager/templates/small", "")
	suite.Equal(http.StatusNoContent, rr.Code)
	rr = suite.DoRequest("DELETE", "/manager/templates/small", "")
	suite.Equal(http.StatusNotFound, rr.Code)
}

func (suite *EnvironTestSuite) TestTemplateFromWizard() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("POST", "/manager/templates", `{"name":"from-wizard"}`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())

	suite.DoRequest("PUT", "/manager/wizard/state?path=app.wizard", validWizardState)
	rr = suite.DoRequest("POST", "/manager/templates", `{"name":"from-wizard"}`)
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	template := suite.Templates.templates["from-wizard"]
	suite.Require().NotNil(template)
	suite.Equal("3.7.0", template.Version)
	suite.Contains(template.Configuration, "SlurmQueues")
}

func (suite *EnvironTestSuite) TestTemplateInvalid() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("POST", "/manager/templates", `{"name":"bad name","configuration":"A: 1\n"}`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
	suite.Equal("name", suite.decode(rr)["field"])

	rr = suite.DoRequest("POST", "/manager/templates", `{"name":"good","configuration":"[unclosed"}`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
	body := suite.decode(rr)
	suite.Equal("configuration", body["field"])
	suite.Equal("invalid_configuration", body["kind"])
	suite.Empty(suite.Templates.templates)
}

func (suite *EnvironTestSuite) TestTemplateStorageFail() {
	suite.Authenticate("admin")
	suite.Templates.err = fmt.Errorf("disk full")
	rr := suite.DoRequest("POST", "/manager/templates", `{"name":"good","configuration":"A: 1\n"}`)
	suite.Equal(http.StatusInternalServerError, rr.Code, rr.Body.String())
}

func (suite *EnvironTestSuite) TestUsersOk() {
	suite.Authenticate("admin")
	suite.Users.users = []*pcluster.User{{Username: "u1", Email: "u1@example.com"}}
	rr := suite.DoGet("/manager/users")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Len(suite.decode(rr)["users"], 1)

	rr = suite.DoRequest("POST", "/manager/users", `{"Username":"new@example.com"}`)
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal("new@example.com", suite.Users.created)

	rr = suite.DoRequest("DELETE", "/manager/users/u1", "")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal("u1", suite.Users.deleted)
}

func (suite *EnvironTestSuite) TestUsersFail() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("POST", "/manager/users", `{"Username":"not-an-email"}`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
	suite.Equal("email", suite.decode(rr)["field"])
	suite.Empty(suite.Users.created)

	rr = suite.DoRequest("DELETE", "/manager/users/missing", "")
	suite.Equal(http.StatusNotFound, rr.Code)

	suite.Env.services.Users = nil
	rr = suite.DoGet("/manager/users")
	suite.Equal(http.StatusNotFound, rr.Code)
}

func (suite *EnvironTestSuite) TestCostStatusOk() {
	suite.Authenticate("admin")
	suite.Costs.active = true
	rr := suite.DoGet("/manager/cost-monitoring")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal(true, suite.decode(rr)["active"])

	rr = suite.DoRequest("PUT", "/manager/cost-monitoring", "")
	suite.Equal(http.StatusNoContent, rr.Code)
	suite.True(suite.Costs.activated)
}

func (suite *EnvironTestSuite) TestCostNotAvailable() {
	suite.Authenticate("admin")
	rr := suite.DoGet("/manager/cost-monitoring?version=3.1.0")
	suite.Equal(http.StatusNotFound, rr.Code)

	rr = suite.DoGet("/manager/cost-monitoring?region=us-gov-west-1")
	suite.Equal(http.StatusNotFound, rr.Code)

	suite.Env.services.Costs = nil
	rr = suite.DoGet("/manager/cost-monitoring")
	suite.Equal(http.StatusNotFound, rr.Code)
}

func (suite *EnvironTestSuite) TestCostDataOk() {
	suite.Authenticate("admin")
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	suite.Env.now = func() time.Time { return now }
	suite.Costs.data = []pcluster.CostData{
		{Amount: 1000, Unit: "USD", Period: pcluster.CostPeriod{Start: "2024-04-01", End: "2024-05-01"}},
		{Amount: 234.5, Unit: "USD", Period: pcluster.CostPeriod{Start: "2024-05-01", End: "2024-05-10"}},
	}
	rr := suite.DoGet("/manager/cost-monitoring/clusters/c1")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal("private, immutable, max-age=43200", rr.Header().Get("Cache-Control"))
	suite.Equal(now.Add(12*time.Hour).Format(http.TimeFormat), rr.Header().Get("Expires"))
	suite.Equal(now.Format(http.TimeFormat), rr.Header().Get("Last-Modified"))
	data := suite.decode(rr)
	suite.Equal("$1,234.5", data["total"])
	suite.Equal(false, data["allZeroes"])
	suite.Len(data["costs"], 2)
	suite.Equal(time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC), suite.Costs.start)
	suite.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), suite.Costs.end)

	rr = suite.DoGet("/manager/cost-monitoring/clusters/c1?start=2024-01-01&end=2024-02-01")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), suite.Costs.start)
	suite.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), suite.Costs.end)
}

func (suite *EnvironTestSuite) TestCostDataFail() {
	suite.Authenticate("admin")
	rr := suite.DoGet("/manager/cost-monitoring/clusters/c1?start=yesterday")
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())

	suite.Costs.err = costexplorer.ErrNotActive
	rr = suite.DoGet("/manager/cost-monitoring/clusters/c1")
	suite.Equal(http.StatusMethodNotAllowed, rr.Code, rr.Body.String())
	suite.Empty(rr.Header().Get("Cache-Control"))
}
