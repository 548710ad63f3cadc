package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// ProjectServiceName is the fully-qualified name of the ProjectService.
const ProjectServiceName = "splitledger.v1.ProjectService"

// Procedure names, used as Spec.Procedure and as HTTP routes.
const (
	ProjectServiceCreateProjectProcedure     = "/splitledger.v1.ProjectService/CreateProject"
	ProjectServiceGetProjectProcedure        = "/splitledger.v1.ProjectService/GetProject"
	ProjectServiceUpdateProjectProcedure     = "/splitledger.v1.ProjectService/UpdateProject"
	ProjectServiceListProjectsProcedure      = "/splitledger.v1.ProjectService/ListProjects"
	ProjectServiceAddParticipantProcedure    = "/splitledger.v1.ProjectService/AddParticipant"
	ProjectServiceRemoveParticipantProcedure = "/splitledger.v1.ProjectService/RemoveParticipant"
	ProjectServiceGetProjectStatsProcedure   = "/splitledger.v1.ProjectService/GetProjectStats"
)

// ProjectServiceClient is a client for the splitledger.v1.ProjectService service.
type ProjectServiceClient interface {
	CreateProject(context.Context, *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.CreateProjectResponse], error)
	GetProject(context.Context, *connect.Request[api.GetProjectRequest]) (*connect.Response[api.GetProjectResponse], error)
	UpdateProject(context.Context, *connect.Request[api.UpdateProjectRequest]) (*connect.Response[api.UpdateProjectResponse], error)
	ListProjects(context.Context, *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	GetProjectStats(context.Context, *connect.Request[api.GetProjectStatsRequest]) (*connect.Response[api.GetProjectStatsResponse], error)
}

// NewProjectServiceClient constructs a client for the splitledger.v1.ProjectService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewProjectServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProjectServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &projectServiceClient{
		createProject:     connect.NewClient[api.CreateProjectRequest, api.CreateProjectResponse](httpClient, baseURL+ProjectServiceCreateProjectProcedure, opts...),
		getProject:        connect.NewClient[api.GetProjectRequest, api.GetProjectResponse](httpClient, baseURL+ProjectServiceGetProjectProcedure, opts...),
		updateProject:     connect.NewClient[api.UpdateProjectRequest, api.UpdateProjectResponse](httpClient, baseURL+ProjectServiceUpdateProjectProcedure, opts...),
		listProjects:      connect.NewClient[api.ListProjectsRequest, api.ListProjectsResponse](httpClient, baseURL+ProjectServiceListProjectsProcedure, opts...),
		addParticipant:    connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+ProjectServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL+ProjectServiceRemoveParticipantProcedure, opts...),
		getProjectStats:   connect.NewClient[api.GetProjectStatsRequest, api.GetProjectStatsResponse](httpClient, baseURL+ProjectServiceGetProjectStatsProcedure, opts...),
	}
}

type projectServiceClient struct {
	createProject     *connect.Client[api.CreateProjectRequest, api.CreateProjectResponse]
	getProject        *connect.Client[api.GetProjectRequest, api.GetProjectResponse]
	updateProject     *connect.Client[api.UpdateProjectRequest, api.UpdateProjectResponse]
	listProjects      *connect.Client[api.ListProjectsRequest, api.ListProjectsResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	getProjectStats   *connect.Client[api.GetProjectStatsRequest, api.GetProjectStatsResponse]
}

func (c *projectServiceClient) CreateProject(ctx context.Context, req *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.CreateProjectResponse], error) {
	return c.createProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) GetProject(ctx context.Context, req *connect.Request[api.GetProjectRequest]) (*connect.Response[api.GetProjectResponse], error) {
	return c.getProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) UpdateProject(ctx context.Context, req *connect.Request[api.UpdateProjectRequest]) (*connect.Response[api.UpdateProjectResponse], error) {
	return c.updateProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) ListProjects(ctx context.Context, req *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error) {
	return c.listProjects.CallUnary(ctx, req)
}

func (c *projectServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *projectServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *projectServiceClient) GetProjectStats(ctx context.Context, req *connect.Request[api.GetProjectStatsRequest]) (*connect.Response[api.GetProjectStatsResponse], error) {
	return c.getProjectStats.CallUnary(ctx, req)
}

// ProjectServiceHandler is implemented by the server side of splitledger.v1.ProjectService.
// Projects and their participants.
type ProjectServiceHandler interface {
	CreateProject(context.Context, *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.CreateProjectResponse], error)
	GetProject(context.Context, *connect.Request[api.GetProjectRequest]) (*connect.Response[api.GetProjectResponse], error)
	UpdateProject(context.Context, *connect.Request[api.UpdateProjectRequest]) (*connect.Response[api.UpdateProjectResponse], error)
	ListProjects(context.Context, *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	GetProjectStats(context.Context, *connect.Request[api.GetProjectStatsRequest]) (*connect.Response[api.GetProjectStatsResponse], error)
}

// NewProjectServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewProjectServiceHandler(svc ProjectServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createProjectHandler := connect.NewUnaryHandler(ProjectServiceCreateProjectProcedure, svc.CreateProject, opts...)
	getProjectHandler := connect.NewUnaryHandler(ProjectServiceGetProjectProcedure, svc.GetProject, opts...)
	updateProjectHandler := connect.NewUnaryHandler(ProjectServiceUpdateProjectProcedure, svc.UpdateProject, opts...)
	listProjectsHandler := connect.NewUnaryHandler(ProjectServiceListProjectsProcedure, svc.ListProjects, opts...)
	addParticipantHandler := connect.NewUnaryHandler(ProjectServiceAddParticipantProcedure, svc.AddParticipant, opts...)
	removeParticipantHandler := connect.NewUnaryHandler(ProjectServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...)
	getProjectStatsHandler := connect.NewUnaryHandler(ProjectServiceGetProjectStatsProcedure, svc.GetProjectStats, opts...)
	return "/" + ProjectServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ProjectServiceCreateProjectProcedure:
			createProjectHandler.ServeHTTP(w, r)
		case ProjectServiceGetProjectProcedure:
			getProjectHandler.ServeHTTP(w, r)
		case ProjectServiceUpdateProjectProcedure:
			updateProjectHandler.ServeHTTP(w, r)
		case ProjectServiceListProjectsProcedure:
			listProjectsHandler.ServeHTTP(w, r)
		case ProjectServiceAddParticipantProcedure:
			addParticipantHandler.ServeHTTP(w, r)
		case ProjectServiceRemoveParticipantProcedure:
			removeParticipantHandler.ServeHTTP(w, r)
		case ProjectServiceGetProjectStatsProcedure:
			getProjectStatsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
