package notifications

const defaultSubject = "Command '${COMMAND}' failed on ${HOSTNAME}"

const defaultHTMLBody = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Command failed on ${HOSTNAME}</title>
<style>
  body { font-family: -apple-system, Helvetica, Arial, sans-serif; color: #1f2933; }
  table { border-collapse: collapse; }
  td { padding: 4px 12px 4px 0; vertical-align: top; }
  pre { background: #f5f7fa; border: 1px solid #d9e2ec; padding: 8px; white-space: pre-wrap; }
</style>
</head>
<body>
<h2>Command failed</h2>
<table>
  <tr><td><strong>Command</strong></td><td><code>${COMMAND}</code></td></tr>
  <tr><td><strong>Exit code</strong></td><td>${EXIT_CODE}</td></tr>
  <tr><td><strong>Host</strong></td><td>${HOSTNAME}</td></tr>
  <tr><td><strong>User</strong></td><td>${USER}</td></tr>
  <tr><td><strong>Time</strong></td><td>${TIMESTAMP}</td></tr>
</table>
<h3>Standard output</h3>
<pre>${STDOUT}</pre>
<h3>Standard error</h3>
<pre>${STDERR}</pre>
</body>
</html>
`

const defaultSlackMessage = `:rotating_light: *Command failed* on ` + "`${HOSTNAME}`" + `
*Command:* ` + "`${COMMAND}`" + `
*Exit code:* ${EXIT_CODE}
*User:* ${USER}
*Time:* ${TIMESTAMP}
*Stdout:*
` + "```${STDOUT}```" + `
*Stderr:*
` + "```${STDERR}```" + `
`
