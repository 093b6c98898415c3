package bleemeo

// Resource is the API route of a resource kind. Any relative route can be
// passed where a Resource is expected; the constants below cover the
// documented ones.
type Resource string

const (
	ResourceAccount               Resource = "v1/account/"
	ResourceAccountConfig         Resource = "v1/accountconfig/"
	ResourceAgent                 Resource = "v1/agent/"
	ResourceAgentConfig           Resource = "v1/agentconfig/"
	ResourceAgentFact             Resource = "v1/agentfact/"
	ResourceAgentType             Resource = "v1/agenttype/"
	ResourceApplication           Resource = "v1/application/"
	ResourceAuditLog              Resource = "v1/auditlog/"
	ResourceAWSIntegration        Resource = "v1/awsintegration/"
	ResourceContactsGroup         Resource = "v1/contactsgroup/"
	ResourceContainer             Resource = "v1/container/"
	ResourceDashboard             Resource = "v1/dashboard/"
	ResourceEvent                 Resource = "v1/event/"
	ResourceGloutonConfigItem     Resource = "v1/gloutonconfigitem/"
	ResourceGloutonCrashReport    Resource = "v1/gloutoncrashreport/"
	ResourceGloutonDiagnostic     Resource = "v1/gloutondiagnostic/"
	ResourceHealthCheck           Resource = "v1/healthcheck/"
	ResourceIntegration           Resource = "v1/integration/"
	ResourceIntegrationTemplate   Resource = "v1/integrationtemplate/"
	ResourceLimit                 Resource = "v1/limit/"
	ResourceMetric                Resource = "v1/metric/"
	ResourceMetricAnnotation      Resource = "v1/metricannotation/"
	ResourceMetricName            Resource = "v1/metricname/"
	ResourceMetricOperation       Resource = "v1/metricoperation/"
	ResourceMetricTemplateGroup   Resource = "v1/metrictemplategroup/"
	ResourceNotificationExecution Resource = "v1/notificationexecution/"
	ResourceNotificationRule      Resource = "v1/notificationrule/"
	ResourceRecordingRule         Resource = "v1/recordingrule/"
	ResourceReport                Resource = "v1/report/"
	ResourceServerGroup           Resource = "v1/servergroup/"
	ResourceService               Resource = "v1/service/"
	ResourceSession               Resource = "v1/session/"
	ResourceSilence               Resource = "v1/silence/"
	ResourceSilenceRecurrent      Resource = "v1/silencerecurrent/"
	ResourceSLO                   Resource = "v1/slo/"
	ResourceTag                   Resource = "v1/tag/"
	ResourceUser                  Resource = "v1/user/"
	ResourceWidget                Resource = "v1/widget/"
)
