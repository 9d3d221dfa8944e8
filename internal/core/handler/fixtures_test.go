package handler

import (
	"testing"

	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/testutil"
)

const monolithSource = `from __future__ import print_function
from flask import Flask, render_template
import sys

app = Flask(__name__)


@app.route('/')
def index():
    return render_template('index.html', serviceTable=table)


@app.route('/productpage')
def front():
    return render_template('productpage.html', user=str(user))


if __name__ == '__main__':
    app.run(host='127.0.0.1', port=int(sys.argv[1]), debug=True)
`

const indexTemplate = `{% extends "bootstrap/base.html" %}
{% block title %}Simple Bookstore App{% endblock %}
{% block content %}<h1>Simple Bookstore App</h1>{% endblock %}
`

const productPageTemplate = `{% extends "bootstrap/base.html" %}
{% block title %}Simple Bookstore App{% endblock %}
`

func testConfig() domain.DeploymentConfig {
	config := domain.CreateDefaultConfig()
	config.TeamID = "27"
	config.Owner = "Moreno"
	config.HostPort = 9095
	return config
}

func seedApplication(t *testing.T, fileSystem *testutil.TestFileSystem, config domain.DeploymentConfig) {
	t.Helper()
	fileSystem.Seed(t, config.EntryPath(), monolithSource)
	fileSystem.Seed(t, config.TemplatesDir()+"/index.html", indexTemplate)
	fileSystem.Seed(t, config.TemplatesDir()+"/productpage.html", productPageTemplate)
}
