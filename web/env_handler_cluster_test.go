package web

import (
	"net/http"
	"net/http/httptest"
	"pcluster/pcui/pcapi"
	"pcluster/pcui/pcluster"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const testConfiguration = "HeadNode:\n  InstanceType: t2.micro\n"

func (suite *EnvironTestSuite) TestClusterListOk() {
	suite.Authenticate()
	suite.Clusters.clusters = []*pcluster.ClusterInfoSummary{
		{ClusterName: "c1", Version: "3.7.0", ClusterStatus: pcluster.ClusterStatusCreateComplete},
		{ClusterName: "c2", Version: "3.6.0", ClusterStatus: pcluster.ClusterStatusDeleteInProgress},
	}
	rr := suite.DoGet("/manager/clusters")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	clusters := suite.decode(rr)["clusters"].([]interface{})
	suite.Len(clusters, 2)
	suite.Equal("c1", clusters[0].(map[string]interface{})["clusterName"])
}

func (suite *EnvironTestSuite) TestClusterCopyCandidatesOk() {
	suite.Authenticate()
	suite.Clusters.clusters = []*pcluster.ClusterInfoSummary{
		{ClusterName: "c1", Version: "3.7.1", ClusterStatus: pcluster.ClusterStatusCreateComplete},
		{ClusterName: "c2", Version: "3.6.0", ClusterStatus: pcluster.ClusterStatusCreateComplete},
		{ClusterName: "c3", Version: "3.7.0", ClusterStatus: pcluster.ClusterStatusDeleteInProgress},
	}
	rr := suite.DoGet("/manager/clusters/copy-candidates?version=3.7.0")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	clusters := suite.decode(rr)["clusters"].([]interface{})
	suite.Require().Len(clusters, 1)
	suite.Equal("c1", clusters[0].(map[string]interface{})["clusterName"])

	rr = suite.DoGet("/manager/clusters/copy-candidates")
	suite.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *EnvironTestSuite) TestClusterDetailOk() {
	suite.Authenticate()
	suite.Clusters.description = &pcluster.ClusterDescription{
		ClusterInfoSummary: pcluster.ClusterInfoSummary{ClusterName: "c1"},
		HeadNode:           &pcluster.Instance{InstanceId: "i-head"},
	}
	suite.Clusters.instances = []*pcluster.Instance{{InstanceId: "i-1", NodeType: pcluster.NodeTypeComputeNode}}
	rr := suite.DoGet("/manager/clusters/c1")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	data := suite.decode(rr)
	suite.Equal("c1", data["clusterName"])
	suite.Len(data["instances"], 1)
}

func (suite *EnvironTestSuite) TestClusterDetailNotFound() {
	suite.Authenticate()
	rr := suite.DoGet("/manager/clusters/missing")
	suite.Equal(http.StatusNotFound, rr.Code, rr.Body.String())
}

func (suite *EnvironTestSuite) TestClusterCreateOk() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("POST", "/manager/clusters?region=us-east-1", `{"clusterName":"c1","clusterConfiguration":"HeadNode:\n  InstanceType: t2.micro\n"}`)
	suite.Equal(http.StatusAccepted, rr.Code, rr.Body.String())
	suite.Require().NotNil(suite.Clusters.created)
	suite.Equal("c1", suite.Clusters.created.Name)
	suite.Equal("us-east-1", suite.Clusters.created.Region)
	suite.False(suite.Clusters.created.DryRun)
	suite.Contains(suite.Clusters.created.Configuration, "parallelcluster-ui")
	suite.Equal("c1", suite.decode(rr)["cluster"].(map[string]interface{})["clusterName"])
}

func (suite *EnvironTestSuite) TestClusterCreateDryRunOk() {
	suite.Authenticate("admin")
	suite.Clusters.err = &pcapi.APIError{
		StatusCode: http.StatusPreconditionFailed,
		Message:    "Request would have succeeded, but DryRun flag is set.",
		Body:       []byte(`{"message":"Request would have succeeded, but DryRun flag is set.","validationMessages":[{"level":"WARNING","type":"KeyPairValidator","message":"no key"}]}`),
	}
	rr := suite.DoRequest("POST", "/manager/clusters?dryrun=true", `{"clusterName":"c1","clusterConfiguration":"HeadNode:\n  InstanceType: t2.micro\n"}`)
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.True(suite.Clusters.created.DryRun)
	notifications := suite.decode(rr)["notifications"].([]interface{})
	suite.Require().Len(notifications, 2)
	suite.Equal("success", notifications[0].(map[string]interface{})["type"])
	suite.Equal("warning", notifications[1].(map[string]interface{})["type"])
	suite.Equal("KeyPairValidator: no key", notifications[1].(map[string]interface{})["content"])
}

func (suite *EnvironTestSuite) TestClusterCreateValidationFail() {
	suite.Authenticate("admin")
	suite.Clusters.err = &pcapi.APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid cluster configuration.",
		Body:       []byte(`{"message":"Invalid cluster configuration.","configurationValidationErrors":[{"level":"ERROR","type":"SchemaValidator","message":"bad"}]}`),
	}
	rr := suite.DoRequest("POST", "/manager/clusters", `{"clusterName":"c1","clusterConfiguration":"HeadNode:\n  InstanceType: t2.micro\n"}`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
	data := suite.decode(rr)
	suite.Equal("Invalid cluster configuration.", data["message"])
	notifications := data["notifications"].([]interface{})
	suite.Require().Len(notifications, 1)
	suite.Equal("error", notifications[0].(map[string]interface{})["type"])
}

func (suite *EnvironTestSuite) TestClusterCreateBadBodyFail() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("POST", "/manager/clusters", `not json`)
	suite.Equal(http.StatusBadRequest, rr.Code)
	suite.Nil(suite.Clusters.created)
}

func (suite *EnvironTestSuite) TestClusterUpdateOk() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("PUT", "/manager/clusters/c1?dryrun=true", `{"clusterConfiguration":"HeadNode:\n  InstanceType: t2.micro\n","forceUpdate":true}`)
	suite.Equal(http.StatusAccepted, rr.Code, rr.Body.String())
	suite.Require().NotNil(suite.Clusters.updated)
	suite.Equal("c1", suite.Clusters.updated.Name)
	suite.True(suite.Clusters.updated.DryRun)
	suite.True(suite.Clusters.updated.ForceUpdate)
}

func (suite *EnvironTestSuite) TestClusterDeleteOk() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("DELETE", "/manager/clusters/c1", "")
	suite.Equal(http.StatusAccepted, rr.Code, rr.Body.String())
	suite.Equal("c1", suite.Clusters.deleted)
}

func (suite *EnvironTestSuite) TestClusterComputeFleet() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("PATCH", "/manager/clusters/c1/compute-fleet", `{"status":"STOP_REQUESTED"}`)
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal(pcluster.FleetStopRequested, suite.Clusters.fleet)

	suite.Clusters.fleet = ""
	rr = suite.DoRequest("PATCH", "/manager/clusters/c1/compute-fleet", `{"status":"RUNNING"}`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
	suite.Empty(suite.Clusters.fleet)
}

func (suite *EnvironTestSuite) TestClusterConfigurationOk() {
	suite.Authenticate()
	suite.Clusters.configuration = testConfiguration
	rr := suite.DoGet("/manager/clusters/c1/configuration")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal(testConfiguration, rr.Body.String())
}

func (suite *EnvironTestSuite) TestClusterDcvSessionOk() {
	suite.Authenticate("admin")
	suite.Clusters.description = &pcluster.ClusterDescription{
		HeadNode: &pcluster.Instance{InstanceId: "i-head", PublicIpAddress: "1.2.3.4", PrivateIpAddress: "10.0.0.1"},
	}
	suite.Runner.output = "PclusterDcvServerPort=8443 PclusterDcvSessionId=abc123 PclusterDcvSessionToken=tok-en\n"
	rr := suite.DoGet("/manager/clusters/c1/dcv-session?user=ubuntu")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	data := suite.decode(rr)
	suite.Equal("https://1.2.3.4:8443?authToken=tok-en#abc123", data["url"])
	suite.Equal("i-head", suite.Runner.instance)
	suite.Contains(suite.Runner.commands[0], "runuser -l ubuntu")
}

func (suite *EnvironTestSuite) TestClusterDcvSessionNoHeadNode() {
	suite.Authenticate("admin")
	suite.Clusters.description = &pcluster.ClusterDescription{}
	rr := suite.DoGet("/manager/clusters/c1/dcv-session")
	suite.Equal(http.StatusConflict, rr.Code, rr.Body.String())
	suite.Empty(suite.Runner.instance)
}

func (suite *EnvironTestSuite) TestClusterDcvSessionBadUser() {
	suite.Authenticate("admin")
	suite.Clusters.description = &pcluster.ClusterDescription{HeadNode: &pcluster.Instance{InstanceId: "i-head"}}
	rr := suite.DoGet("/manager/clusters/c1/dcv-session?user=root%3Brm")
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
	suite.Equal("user", suite.decode(rr)["field"])
}

func (suite *EnvironTestSuite) TestClusterHeadNodeLinksOk() {
	suite.Authenticate()
	suite.Clusters.description = &pcluster.ClusterDescription{HeadNode: &pcluster.Instance{InstanceId: "i-head"}}
	rr := suite.DoGet("/manager/clusters/c1/head-node/links")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	data := suite.decode(rr)
	suite.Equal(pcluster.ShellURL("eu-west-1", "i-head"), data["shell"])
	suite.Equal(pcluster.FileSystemURL("eu-west-1", "i-head", "ec2-user"), data["filesystem"])
}

func (suite *EnvironTestSuite) TestLogStreamsOk() {
	suite.Authenticate()
	suite.Clusters.description = &pcluster.ClusterDescription{HeadNode: &pcluster.Instance{InstanceId: "i-head"}}
	rr := suite.DoGet("/manager/clusters/c1/logstreams")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	streams := suite.decode(rr)["logStreams"].([]interface{})
	suite.Require().Len(streams, 2)
	suite.Equal("HeadNode", streams[0].(map[string]interface{})["nodeType"])
	suite.Equal("ComputeNode", streams[1].(map[string]interface{})["nodeType"])
}

func (suite *EnvironTestSuite) TestLogEventsOk() {
	suite.Authenticate()
	rr := suite.DoGet("/manager/clusters/c1/logstreams/ip-10-0-0-1.i-head.cfn-init/events?startFromHead=true&limit=10&nextToken=f%2F0")
	suite.Equal(http.StatusOK, rr.Code, rr.Body.String())
	suite.Equal("f/1", suite.decode(rr)["nextToken"])
	suite.Equal(10, suite.Logs.query.Limit)
	suite.Equal("f/0", suite.Logs.query.NextToken)
	suite.Require().NotNil(suite.Logs.query.StartFromHead)
	suite.True(*suite.Logs.query.StartFromHead)

	rr = suite.DoGet("/manager/clusters/c1/logstreams/s/events?limit=zero")
	suite.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *EnvironTestSuite) TestCustomImageBuildRequiresId() {
	suite.Authenticate("admin")
	rr := suite.DoRequest("POST", "/manager/images/custom", `{"imageConfiguration":"Build: {}"}`)
	suite.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
	suite.Equal("image_id_required", suite.decode(rr)["kind"])
}

func (suite *EnvironTestSuite) TestLogTailOk() {
	suite.Authenticate()
	suite.Env.tailInterval = 10 * time.Millisecond
	server := httptest.NewServer(suite.Env)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/manager/clusters/c1/logstreams/s1/tail"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	suite.Require().NoError(err)
	defer conn.Close()

	for i := 0; i < 2; i++ {
		message := map[string][]pcluster.LogEvent{}
		suite.Require().NoError(conn.ReadJSON(&message))
		suite.Require().Len(message["events"], 1)
		suite.Equal("hello", message["events"][0].Message)
	}
}
