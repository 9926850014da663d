package automation

import (
	"sort"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// iamPrefixes maps SDK service names to IAM action prefixes where they differ.
var iamPrefixes = map[string]string{
	"elbv2":         "elasticloadbalancing",
	"elb":           "elasticloadbalancing",
	"stepfunctions": "states",
	"sesv2":         "ses",
	"opensearch":    "es",
	"acm-pca":       "acm-pca",
}

// knownServices are SDK service names scripts conventionally bind to a variable of the same name.
var knownServices = []string{
	"ec2", "s3", "iam", "rds", "sts", "sqs", "sns", "kms", "ssm", "ecs", "ecr", "eks",
	"elbv2", "route53", "dynamodb", "cloudformation", "cloudwatch", "autoscaling",
	"secretsmanager", "lambda", "logs", "efs", "elasticache", "redshift",
}

// ambiguousNames are service names that commonly name unrelated Python values.
var ambiguousNames = map[string]bool{"lambda": true, "logs": true}

// methodActions lists calls whose IAM action is not the PascalCase of the method.
var methodActions = map[string][]string{
	"ec2.describe_instances":          {"DescribeInstances"},
	"s3.list_objects":                 {"ListBucket"},
	"s3.list_objects_v2":              {"ListBucket"},
	"s3.head_bucket":                  {"ListBucket"},
	"s3.head_object":                  {"GetObject"},
	"s3.list_object_versions":         {"ListBucketVersions"},
	"s3.list_buckets":                 {"ListAllMyBuckets"},
	"s3.upload_file":                  {"PutObject"},
	"s3.upload_fileobj":               {"PutObject"},
	"s3.download_file":                {"GetObject"},
	"s3.download_fileobj":             {"GetObject"},
	"s3.copy_object":                  {"GetObject", "PutObject"},
	"s3.copy":                         {"GetObject", "PutObject"},
	"s3.delete_objects":               {"DeleteObject"},
	"lambda.invoke":                   {"InvokeFunction"},
	"lambda.invoke_async":             {"InvokeFunction"},
	"rds.describe_db_instances":       {"DescribeDBInstances"},
	"sts.assume_role":                 {"AssumeRole"},
	"dynamodb.batch_get_item":         {"BatchGetItem"},
	"secretsmanager.get_secret_value": {"GetSecretValue"},
	"kms.generate_data_key":           {"GenerateDataKey"},
	"logs.filter_log_events":          {"FilterLogEvents"},
	"ec2.create_instances":            {"RunInstances"},
	"sqs.get_queue_by_name":           {"GetQueueUrl"},
}

// ignoredMethods never map to an action on their own.
var ignoredMethods = map[string]bool{
	"get_paginator":              true,
	"get_waiter":                 true,
	"can_paginate":               true,
	"close":                      true,
	"generate_presigned_url":     true,
	"generate_presigned_post":    true,
	"get_available_subresources": true,
}

// waiterActions maps waiter names to the describe call they poll.
var waiterActions = map[string]string{
	"instance_running":      "ec2.describe_instances",
	"instance_stopped":      "ec2.describe_instances",
	"instance_terminated":   "ec2.describe_instances",
	"instance_exists":       "ec2.describe_instances",
	"bucket_exists":         "s3.head_bucket",
	"object_exists":         "s3.head_object",
	"db_instance_available": "rds.describe_db_instances",
	"db_instance_deleted":   "rds.describe_db_instances",
	"stack_create_complete": "cloudformation.describe_stacks",
	"stack_update_complete": "cloudformation.describe_stacks",
	"stack_delete_complete": "cloudformation.describe_stacks",
	"table_exists":          "dynamodb.describe_table",
}

// resourceTypes are the boto3 resource object constructors tracked through method chains.
var resourceTypes = map[string]map[string][]string{
	"Bucket": {
		"upload_file":      {"PutObject"},
		"upload_fileobj":   {"PutObject"},
		"put_object":       {"PutObject"},
		"download_file":    {"GetObject"},
		"download_fileobj": {"GetObject"},
		"delete_objects":   {"DeleteObject"},
		"copy":             {"GetObject", "PutObject"},
		"delete":           {"DeleteBucket"},
		"create":           {"CreateBucket"},
	},
	"Object": {
		"upload_file":   {"PutObject"},
		"put":           {"PutObject"},
		"get":           {"GetObject"},
		"download_file": {"GetObject"},
		"delete":        {"DeleteObject"},
		"copy_from":     {"GetObject", "PutObject"},
	},
	"Instance": {
		"terminate":        {"TerminateInstances"},
		"stop":             {"StopInstances"},
		"start":            {"StartInstances"},
		"reboot":           {"RebootInstances"},
		"create_tags":      {"CreateTags"},
		"modify_attribute": {"ModifyInstanceAttribute"},
	},
	"Table": {
		"put_item":    {"PutItem"},
		"get_item":    {"GetItem"},
		"update_item": {"UpdateItem"},
		"delete_item": {"DeleteItem"},
		"query":       {"Query"},
		"scan":        {"Scan"},
	},
	"Queue": {
		"send_message":     {"SendMessage"},
		"receive_messages": {"ReceiveMessage"},
		"purge":            {"PurgeQueue"},
	},
	"Topic": {
		"publish": {"Publish"},
	},
}

// collectionMethods iterate a resource collection.
var collectionMethods = map[string]bool{"all": true, "filter": true, "limit": true, "page_size": true}

// resourceCollections maps `<resource>.<collection>.all()/filter()` to the listing action.
var resourceCollections = map[string]string{
	"instances":       "DescribeInstances",
	"buckets":         "ListAllMyBuckets",
	"tables":          "ListTables",
	"queues":          "ListQueues",
	"volumes":         "DescribeVolumes",
	"vpcs":            "DescribeVpcs",
	"subnets":         "DescribeSubnets",
	"security_groups": "DescribeSecurityGroups",
}

// pascalTokens overrides the capitalization of individual words.
var pascalTokens = map[string]string{"db": "DB"}

// PascalCase converts an SDK method name to an action name: list_buckets -> ListBuckets.
func PascalCase(method string) string {
	var b strings.Builder
	for _, part := range strings.Split(method, "_") {
		if part == "" {
			continue
		}
		if tok, ok := pascalTokens[part]; ok {
			b.WriteString(tok)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// iamService returns the IAM action prefix for an SDK service name.
func iamService(service string) string {
	if p, ok := iamPrefixes[service]; ok {
		return p
	}
	return service
}

// ResolveAction maps an SDK call to IAM permissions using the static table with PascalCase fallback.
func ResolveAction(service, method string) []maintdoc.IAMPermission {
	actions, ok := methodActions[service+"."+method]
	if !ok {
		actions = []string{PascalCase(method)}
	}
	perms := make([]maintdoc.IAMPermission, 0, len(actions))
	for _, a := range actions {
		perms = append(perms, maintdoc.IAMPermission{Service: iamService(service), Action: a})
	}
	return perms
}


// clientBinding is an assignment of an SDK client or resource to a name. Typed
// resources (bucket = s3.Bucket(name)) carry the constructor in resType.
type clientBinding struct {
	name     string
	service  string
	resource bool
	resType  string
	at       sourcetree.NodeID
}

type foundPermission struct {
	at   sourcetree.NodeID
	perm maintdoc.IAMPermission
}

type permissionScan struct {
	tree     *sourcetree.Tree
	bindings map[string][]clientBinding
	found    []foundPermission
}

func (s *permissionScan) add(at sourcetree.NodeID, perms ...maintdoc.IAMPermission) {
	for _, p := range perms {
		s.found = append(s.found, foundPermission{at: at, perm: p})
	}
}

func (s *permissionScan) addCall(at sourcetree.NodeID, service, method string) {
	if method == "" || ignoredMethods[method] {
		return
	}
	s.add(at, ResolveAction(service, method)...)
}

func (s *permissionScan) addResourceCall(at sourcetree.NodeID, service, resType, method string) {
	for _, a := range resourceTypes[resType][method] {
		s.add(at, maintdoc.IAMPermission{Service: iamService(service), Action: a})
	}
}

// extractPermissions discovers SDK clients and resources and resolves the calls made
// on them, returning permissions in source order with duplicates removed.
func extractPermissions(tree *sourcetree.Tree) []maintdoc.PermissionRequirement {
	if tree == nil {
		return []maintdoc.PermissionRequirement{}
	}
	s := &permissionScan{tree: tree, bindings: make(map[string][]clientBinding)}
	for _, a := range tree.Find(tree.Root(), sourcetree.KindAssign) {
		s.bind(a)
	}
	for _, c := range tree.Find(tree.Root(), sourcetree.KindCall) {
		s.resolve(c)
	}

	sort.SliceStable(s.found, func(i, j int) bool { return s.found[i].at < s.found[j].at })
	perms := make([]maintdoc.PermissionRequirement, 0, len(s.found))
	for _, f := range s.found {
		perms = append(perms, f.perm)
	}
	return maintdoc.DedupePermissions(perms)
}

// sdkService returns the service named by a client(...) or resource(...) call.
func sdkService(tree *sourcetree.Tree, call sourcetree.NodeID) (service string, resource, ok bool) {
	_, method := callee(tree, call)
	if method != "client" && method != "resource" {
		return "", false, false
	}
	service, ok = firstString(tree, call)
	if !ok {
		service, ok = literal(tree, keywordArg(tree, call, "service_name"))
	}
	return service, method == "resource", ok && service != ""
}

// bind records `name = boto3.client('svc')`, `self.s3 = session.resource("s3")`
// and `bucket = s3.Bucket(name)` assignments.
func (s *permissionScan) bind(assign sourcetree.NodeID) {
	tree := s.tree
	left := tree.ChildByRole(assign, sourcetree.RoleLeft)
	right := tree.ChildByRole(assign, sourcetree.RoleRight)
	if tree.Kind(right) != sourcetree.KindCall {
		return
	}
	if k := tree.Kind(left); k != sourcetree.KindIdentifier && k != sourcetree.KindFieldAccess {
		return
	}
	name := tree.Text(left)

	if service, resource, ok := sdkService(tree, right); ok {
		s.bindings[name] = append(s.bindings[name], clientBinding{name: name, service: service, resource: resource, at: assign})
		return
	}
	recv, method := callee(tree, right)
	if recv == sourcetree.NoNode || !isUpper(method) {
		return
	}
	if b, ok := s.binding(tree.Text(recv), assign); ok && b.resource && b.resType == "" {
		s.bindings[name] = append(s.bindings[name], clientBinding{name: name, service: b.service, resource: true, resType: method, at: assign})
	}
}

// binding returns the latest binding of name made before at.
func (s *permissionScan) binding(name string, at sourcetree.NodeID) (clientBinding, bool) {
	var found clientBinding
	ok := false
	for _, b := range s.bindings[name] {
		if b.at < at {
			found, ok = b, true
		}
	}
	return found, ok
}

// receiverBinding resolves a receiver to a binding, falling back to conventional
// names (ec2, s3_client, rds_conn) for clients created elsewhere, such as parameters.
func (s *permissionScan) receiverBinding(name string, at sourcetree.NodeID) (clientBinding, bool) {
	if b, ok := s.binding(name, at); ok {
		return b, true
	}
	if _, bound := s.bindings[name]; bound {
		return clientBinding{}, false
	}
	bare := strings.TrimPrefix(name, "self.")
	for _, svc := range knownServices {
		if bare == svc+"_client" || name == svc+"_conn" || (name == svc && !ambiguousNames[svc]) {
			return clientBinding{name: name, service: svc}, true
		}
	}
	return clientBinding{}, false
}

// resolve maps one call to the permissions it needs, if any.
func (s *permissionScan) resolve(call sourcetree.NodeID) {
	tree := s.tree
	recv, method := callee(tree, call)
	if recv == sourcetree.NoNode || method == "" {
		return
	}

	switch method {
	case "get_paginator":
		if b, ok := s.receiverBinding(tree.Text(recv), call); ok {
			if op, ok := firstString(tree, call); ok {
				s.addCall(call, b.service, op)
			}
		}
		return
	case "get_waiter":
		if name, ok := firstString(tree, call); ok {
			if polled, ok := waiterActions[name]; ok {
				svc, m, _ := strings.Cut(polled, ".")
				s.addCall(call, svc, m)
			}
		}
		return
	}

	switch tree.Kind(recv) {
	case sourcetree.KindCall:
		s.resolveChain(call, recv, method)
		return
	case sourcetree.KindFieldAccess:
		if s.resolveAttribute(call, recv, method) {
			return
		}
	}

	b, ok := s.receiverBinding(tree.Text(recv), call)
	switch {
	case !ok:
	case b.resType != "":
		s.addResourceCall(call, b.service, b.resType, method)
	case b.resource:
		// Capitalized names construct resource objects; lower-case ones are service actions.
		if !isUpper(method) {
			s.addCall(call, b.service, method)
		}
	default:
		s.addCall(call, b.service, method)
	}
}

// resolveChain handles calls on a call result: boto3.client('s3').list_buckets()
// and s3.Bucket(name).upload_file(...).
func (s *permissionScan) resolveChain(call, inner sourcetree.NodeID, method string) {
	tree := s.tree
	if service, resource, ok := sdkService(tree, inner); ok {
		if !resource {
			s.addCall(call, service, method)
		}
		return
	}
	owner, ctor := callee(tree, inner)
	if owner == sourcetree.NoNode || !isUpper(ctor) {
		return
	}
	if b, ok := s.binding(tree.Text(owner), call); ok && b.resource && b.resType == "" {
		s.addResourceCall(call, b.service, ctor, method)
	}
}

// resolveAttribute handles s3.meta.client.upload_file(...), ec2.instances.filter(...)
// and bucket.objects.all(). It reports whether the receiver was one of those forms.
func (s *permissionScan) resolveAttribute(call, recv sourcetree.NodeID, method string) bool {
	tree := s.tree
	if base, ok := strings.CutSuffix(tree.Text(recv), ".meta.client"); ok {
		if b, ok := s.binding(base, call); ok {
			s.addCall(call, b.service, method)
		}
		return true
	}
	if !collectionMethods[method] {
		return false
	}
	owner := tree.Text(tree.ChildByRole(recv, sourcetree.RoleObject))
	collection := tree.Text(tree.ChildByRole(recv, sourcetree.RoleName))
	b, ok := s.binding(owner, call)
	if !ok || !b.resource {
		return false
	}
	switch {
	case b.resType == "":
		if action, ok := resourceCollections[collection]; ok {
			s.add(call, maintdoc.IAMPermission{Service: iamService(b.service), Action: action})
		}
	case b.resType == "Bucket" && collection == "objects":
		s.add(call, maintdoc.IAMPermission{Service: "s3", Action: "ListBucket"})
	}
	return true
}
